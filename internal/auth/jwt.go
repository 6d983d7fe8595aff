// Package auth issues and reads bearer tokens that carry a user id.
//
// Tokens only transport identity. Whoever holds a valid token is trusted to
// act as the user it names.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped into and required from every token.
const Issuer = "izposoja"

// TokenExpiry is the default token lifetime.
const TokenExpiry = 30 * 24 * time.Hour

// ErrInvalidToken is returned for tokens that fail parsing or validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the registered claims plus the acting user's id.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for userID, valid from issuedAt for TokenExpiry.
func GenerateToken(secret string, userID int64, issuedAt time.Time) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("generating token: invalid user id %d", userID)
	}

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token and returns the user id it carries.
func ValidateToken(secret, tokenStr string) (int64, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return 0, fmt.Errorf("%w: subject does not match user", ErrInvalidToken)
	}
	return claims.UserID, nil
}

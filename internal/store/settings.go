package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const settingJWTSecret = "jwt_secret"

// GetJWTSecret retrieves the token signing secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Insert-if-absent followed by a re-read keeps concurrent first starts consistent.
func (s *Store) GetJWTSecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	query, args, err := s.dialect.Insert("settings").
		Rows(goqu.Record{"key": settingJWTSecret, "value": candidate}).
		OnConflict(goqu.DoNothing()).
		Prepared(true).ToSQL()
	if _, err := s.exec(ctx, query, args, err); err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	found, err := s.get(ctx, &secret, s.dialect.From("settings").Select("value").Where(goqu.C("key").Eq(settingJWTSecret)))
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}
	if !found {
		return "", fmt.Errorf("querying jwt_secret: not stored")
	}

	return secret, nil
}

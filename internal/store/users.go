package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/erazemk/izposoja/internal/model"
)

var userColumns = []any{"id", "name", "email", "created_at"}

// CreateUser creates a new user. A taken email yields ErrDuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	id, err := s.insert(ctx, s.dialect.Insert("users").Rows(goqu.Record{
		"name":  name,
		"email": email,
	}))
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.GetUser(ctx, id)
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	found, err := s.get(ctx, u, s.dialect.From("users").Select(userColumns...).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if !found {
		return nil, nil
	}
	u.CreatedAt = utc(u.CreatedAt)
	return u, nil
}

// UserExists reports whether a user with the given ID exists.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.exists(ctx, s.dialect.From("users").Where(goqu.C("id").Eq(id)))
	if err != nil {
		return false, fmt.Errorf("checking user: %w", err)
	}
	return ok, nil
}

// ListUsers returns all users ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.list(ctx, &users, s.dialect.From("users").Select(userColumns...).Order(goqu.C("id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	for i := range users {
		users[i].CreatedAt = utc(users[i].CreatedAt)
	}
	return users, nil
}

// UpdateUser stores a user's name and email. A taken email yields ErrDuplicateEmail.
func (s *Store) UpdateUser(ctx context.Context, u model.User) error {
	query, args, err := s.dialect.Update("users").
		Set(goqu.Record{"name": u.Name, "email": u.Email}).
		Where(goqu.C("id").Eq(u.ID)).
		Prepared(true).ToSQL()
	_, err = s.exec(ctx, query, args, err)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// DeleteUser deletes a user together with their items, bookings and comments.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	query, args, err := s.dialect.Delete("users").Where(goqu.C("id").Eq(id)).Prepared(true).ToSQL()
	if _, err := s.exec(ctx, query, args, err); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// CreateUser registers a user. Emails are unique as stored.
func (s *Service) CreateUser(ctx context.Context, name, email string) (_ *model.User, err error) {
	defer s.observe("create_user", time.Now(), &err)

	u, err := s.store.CreateUser(ctx, name, email)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// GetUser returns a user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if u == nil {
		return nil, notFound(ErrUserNotFound, id)
	}
	return u, nil
}

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// UpdateUser applies a patch. Absent fields keep their stored values.
func (s *Service) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (_ *model.User, err error) {
	defer s.observe("update_user", time.Now(), &err)

	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(u)
	err = s.store.UpdateUser(ctx, *u)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user together with everything they own or booked.
func (s *Service) DeleteUser(ctx context.Context, id int64) (err error) {
	defer s.observe("delete_user", time.Now(), &err)

	if err := s.requireUser(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

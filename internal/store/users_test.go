package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/izposoja/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(db.NewTestDB(t), db.DriverSQLite)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "Ana", "ana@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("expected name 'Ana', got %q", user.Name)
	}

	got, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "ana@example.com" {
		t.Errorf("expected email 'ana@example.com', got %q", got.Email)
	}

	missing, err := s.GetUser(ctx, user.ID+100)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestUserExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, _ := s.CreateUser(ctx, "Ana", "ana@example.com")

	ok, err := s.UserExists(ctx, user.ID)
	if err != nil || !ok {
		t.Errorf("expected user to exist, got %v, %v", ok, err)
	}
	ok, err = s.UserExists(ctx, 999)
	if err != nil || ok {
		t.Errorf("expected user 999 not to exist, got %v, %v", ok, err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "Ana", "ana@example.com"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := s.CreateUser(ctx, "Other Ana", "ana@example.com")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	// Emails are compared as stored.
	if _, err := s.CreateUser(ctx, "Loud Ana", "ANA@example.com"); err != nil {
		t.Errorf("expected differently cased email to be accepted, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ana, _ := s.CreateUser(ctx, "Ana", "ana@example.com")
	bor, _ := s.CreateUser(ctx, "Bor", "bor@example.com")

	ana.Name = "Ana Novak"
	if err := s.UpdateUser(ctx, *ana); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, _ := s.GetUser(ctx, ana.ID)
	if got.Name != "Ana Novak" {
		t.Errorf("expected updated name, got %q", got.Name)
	}

	bor.Email = "ana@example.com"
	if err := s.UpdateUser(ctx, *bor); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestListAndDeleteUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.CreateUser(ctx, "a", "a@example.com")
	s.CreateUser(ctx, "b", "b@example.com")

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	if err := s.DeleteUser(ctx, a.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	users, _ = s.ListUsers(ctx)
	if len(users) != 1 {
		t.Errorf("expected 1 user after delete, got %d", len(users))
	}
}

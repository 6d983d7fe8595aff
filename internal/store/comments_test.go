package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

func TestCreateAndListComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, s, "owner")
	renter := createTestUser(t, s, "renter")
	item := createTestItem(t, s, owner.ID, "Drill", "", true)
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	first, err := s.CreateComment(ctx, model.Comment{Text: "Worked well", ItemID: item.ID, AuthorID: renter.ID, CreatedAt: base})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if first.AuthorName != "renter" {
		t.Errorf("expected author name 'renter', got %q", first.AuthorName)
	}
	if !first.CreatedAt.Equal(base) {
		t.Errorf("expected created %v, got %v", base, first.CreatedAt)
	}

	second, _ := s.CreateComment(ctx, model.Comment{Text: "Battery is weak", ItemID: item.ID, AuthorID: renter.ID, CreatedAt: base.Add(time.Minute)})

	comments, err := s.ListComments(ctx, item.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != second.ID || comments[1].ID != first.ID {
		t.Errorf("expected newest comment first, got %+v", comments)
	}
}

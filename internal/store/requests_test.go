package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

func TestCreateAndListRequests(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ana := createTestUser(t, s, "ana")
	bor := createTestUser(t, s, "bor")
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	older, err := s.CreateRequest(ctx, model.ItemRequest{Description: "tent", RequestorID: ana.ID, CreatedAt: base})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	newer, _ := s.CreateRequest(ctx, model.ItemRequest{Description: "stove", RequestorID: ana.ID, CreatedAt: base.Add(time.Hour)})
	theirs, _ := s.CreateRequest(ctx, model.ItemRequest{Description: "kayak", RequestorID: bor.ID, CreatedAt: base.Add(2 * time.Hour)})

	if !older.CreatedAt.Equal(base) {
		t.Errorf("expected created %v, got %v", base, older.CreatedAt)
	}

	own, err := s.ListRequestsByRequestor(ctx, ana.ID)
	if err != nil {
		t.Fatalf("ListRequestsByRequestor: %v", err)
	}
	if len(own) != 2 || own[0].ID != newer.ID || own[1].ID != older.ID {
		t.Errorf("expected own requests newest first, got %+v", own)
	}

	others, err := s.ListRequestsExcept(ctx, ana.ID, model.Page{From: 0, Size: 10})
	if err != nil {
		t.Fatalf("ListRequestsExcept: %v", err)
	}
	if len(others) != 1 || others[0].ID != theirs.ID {
		t.Errorf("expected only bor's request, got %+v", others)
	}
}

func TestRequestExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ana := createTestUser(t, s, "ana")

	req, _ := s.CreateRequest(ctx, model.ItemRequest{Description: "tent", RequestorID: ana.ID, CreatedAt: time.Now()})

	ok, err := s.RequestExists(ctx, req.ID)
	if err != nil || !ok {
		t.Errorf("expected request to exist, got %v, %v", ok, err)
	}
	ok, _ = s.RequestExists(ctx, req.ID+1)
	if ok {
		t.Error("expected missing request not to exist")
	}

	missing, err := s.GetRequest(ctx, req.ID+1)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing request, got %v, %v", missing, err)
	}
}

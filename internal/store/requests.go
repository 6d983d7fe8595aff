package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/erazemk/izposoja/internal/model"
)

var requestColumns = []any{"id", "description", "requestor_id", "created_at"}

// CreateRequest stores a new item request.
func (s *Store) CreateRequest(ctx context.Context, r model.ItemRequest) (*model.ItemRequest, error) {
	id, err := s.insert(ctx, s.dialect.Insert("item_requests").Rows(goqu.Record{
		"description":  r.Description,
		"requestor_id": r.RequestorID,
		"created_at":   utc(r.CreatedAt),
	}))
	if err != nil {
		return nil, fmt.Errorf("creating item request: %w", err)
	}

	return s.GetRequest(ctx, id)
}

// GetRequest returns an item request by ID, without its items.
func (s *Store) GetRequest(ctx context.Context, id int64) (*model.ItemRequest, error) {
	r := &model.ItemRequest{}
	found, err := s.get(ctx, r, s.dialect.From("item_requests").Select(requestColumns...).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("getting item request: %w", err)
	}
	if !found {
		return nil, nil
	}
	r.CreatedAt = utc(r.CreatedAt)
	return r, nil
}

// RequestExists reports whether an item request with the given ID exists.
func (s *Store) RequestExists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.exists(ctx, s.dialect.From("item_requests").Where(goqu.C("id").Eq(id)))
	if err != nil {
		return false, fmt.Errorf("checking item request: %w", err)
	}
	return ok, nil
}

// ListRequestsByRequestor returns a user's own requests, newest first.
func (s *Store) ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error) {
	ds := s.dialect.From("item_requests").Select(requestColumns...).
		Where(goqu.C("requestor_id").Eq(requestorID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())

	requests, err := s.listRequests(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("listing own item requests: %w", err)
	}
	return requests, nil
}

// ListRequestsExcept returns a page of other users' requests, newest first.
func (s *Store) ListRequestsExcept(ctx context.Context, userID int64, page model.Page) ([]model.ItemRequest, error) {
	ds := s.dialect.From("item_requests").Select(requestColumns...).
		Where(goqu.C("requestor_id").Neq(userID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Offset(uint(page.Offset())).
		Limit(uint(page.Limit()))

	requests, err := s.listRequests(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("listing item requests: %w", err)
	}
	return requests, nil
}

func (s *Store) listRequests(ctx context.Context, ds *goqu.SelectDataset) ([]model.ItemRequest, error) {
	var requests []model.ItemRequest
	if err := s.list(ctx, &requests, ds); err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].CreatedAt = utc(requests[i].CreatedAt)
	}
	return requests, nil
}

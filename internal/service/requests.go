package service

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

// CreateRequest asks other users for an item that is not listed yet.
func (s *Service) CreateRequest(ctx context.Context, userID int64, description string) (_ *model.ItemRequest, err error) {
	defer s.observe("create_request", time.Now(), &err)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.store.CreateRequest(ctx, model.ItemRequest{
		Description: description,
		RequestorID: userID,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating item request: %w", err)
	}
	r.Items = []model.Item{}
	return r, nil
}

// ListOwnRequests returns the user's requests, newest first, with the items
// listed in answer to them.
func (s *Service) ListOwnRequests(ctx context.Context, userID int64) ([]model.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.ListRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// ListOtherRequests returns a page of other users' requests, newest first.
func (s *Service) ListOtherRequests(ctx context.Context, userID int64, page model.Page) ([]model.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.ListRequestsExcept(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// GetRequest returns any request with its answering items.
func (s *Service) GetRequest(ctx context.Context, userID, requestID int64) (*model.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, notFound(ErrRequestNotFound, requestID)
	}
	withItems, err := s.withItems(ctx, []model.ItemRequest{*r})
	if err != nil {
		return nil, err
	}
	return &withItems[0], nil
}

// withItems attaches answering items to each request with one query.
func (s *Service) withItems(ctx context.Context, requests []model.ItemRequest) ([]model.ItemRequest, error) {
	if len(requests) == 0 {
		return []model.ItemRequest{}, nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	items, err := s.store.ListItemsByRequest(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("attaching request items: %w", err)
	}

	byRequest := make(map[int64][]model.Item, len(requests))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}
	for i := range requests {
		requests[i].Items = byRequest[requests[i].ID]
		if requests[i].Items == nil {
			requests[i].Items = []model.Item{}
		}
	}
	return requests, nil
}

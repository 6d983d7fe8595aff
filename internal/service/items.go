package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/erazemk/izposoja/internal/imaging"
	"github.com/erazemk/izposoja/internal/model"
)

// NewItem is the input for listing an item.
type NewItem struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// CreateItem lists a new item owned by ownerID, optionally answering an
// item request.
func (s *Service) CreateItem(ctx context.Context, ownerID int64, in NewItem) (_ *model.Item, err error) {
	defer s.observe("create_item", time.Now(), &err)

	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if in.RequestID != nil {
		ok, err := s.store.RequestExists(ctx, *in.RequestID)
		if err != nil {
			return nil, fmt.Errorf("creating item: %w", err)
		}
		if !ok {
			return nil, notFound(ErrRequestNotFound, *in.RequestID)
		}
	}

	item, err := s.store.CreateItem(ctx, model.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// UpdateItem applies a patch to one of the user's items.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID int64, patch model.ItemPatch) (_ *model.Item, err error) {
	defer s.observe("update_item", time.Now(), &err)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, ErrNotOwner
	}

	patch.Apply(item)
	if err := s.store.UpdateItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// GetItem returns an item with its comments. The owner also sees the last
// and next bookings.
func (s *Service) GetItem(ctx context.Context, viewerID, itemID int64) (_ *model.ItemView, err error) {
	defer s.observe("get_item", time.Now(), &err)

	if err := s.requireUser(ctx, viewerID); err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *item, viewerID, s.clock.Now())
}

// ListOwnerItems returns a page of the owner's items, each with its
// bookings view and comments.
func (s *Service) ListOwnerItems(ctx context.Context, ownerID int64, page model.Page) (_ []model.ItemView, err error) {
	defer s.observe("list_owner_items", time.Now(), &err)

	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.store.ListItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	now := s.clock.Now()
	views := make([]model.ItemView, 0, len(items))
	for _, it := range items {
		v, err := s.view(ctx, it, ownerID, now)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// view assembles an item's presentation for viewerID at instant now.
func (s *Service) view(ctx context.Context, item model.Item, viewerID int64, now time.Time) (*model.ItemView, error) {
	v := &model.ItemView{Item: item}

	if item.OwnerID == viewerID {
		last, err := s.store.LastBooking(ctx, item.ID, now)
		if err != nil {
			return nil, err
		}
		next, err := s.store.NextBooking(ctx, item.ID, now)
		if err != nil {
			return nil, err
		}
		v.LastBooking, v.NextBooking = last, next
	}

	comments, err := s.store.ListComments(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	v.Comments = comments
	return v, nil
}

// SearchItems returns available items whose name or description contains
// text. Blank text matches nothing.
func (s *Service) SearchItems(ctx context.Context, text string, page model.Page) (_ []model.Item, err error) {
	defer s.observe("search_items", time.Now(), &err)

	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	items, err := s.store.SearchItems(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// AddComment records feedback from a user who has finished a booking of
// the item.
func (s *Service) AddComment(ctx context.Context, authorID, itemID int64, text string) (_ *model.Comment, err error) {
	defer s.observe("add_comment", time.Now(), &err)

	if err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.requireItem(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.store.HasCompletedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	if !ok {
		return nil, ErrNotACompletedRenter
	}

	c, err := s.store.CreateComment(ctx, model.Comment{
		Text:      text,
		ItemID:    itemID,
		AuthorID:  authorID,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	return c, nil
}

// SetItemImage replaces the photo of one of the user's items.
func (s *Service) SetItemImage(ctx context.Context, userID, itemID int64, r io.Reader) (_ *imaging.Photo, err error) {
	defer s.observe("set_item_image", time.Now(), &err)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, ErrNotOwner
	}

	photo, err := imaging.Process(r)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetItemImage(ctx, itemID, photo.Data, photo.MIME, photo.Thumbnail); err != nil {
		return nil, err
	}
	return photo, nil
}

// ItemImage returns an item's photo or thumbnail with its MIME type.
func (s *Service) ItemImage(ctx context.Context, itemID int64, thumbnail bool) ([]byte, string, error) {
	if _, err := s.requireItem(ctx, itemID); err != nil {
		return nil, "", err
	}
	data, mime, err := s.store.GetItemImage(ctx, itemID, thumbnail)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return nil, "", notFound(ErrImageNotFound, itemID)
	}
	return data, mime, nil
}

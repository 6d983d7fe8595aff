package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/erazemk/izposoja/internal/model"
)

var itemColumns = []any{
	"id", "name", "description", "available", "owner_id", "request_id", "created_at",
	goqu.L("image IS NOT NULL").As("has_image"),
}

func (s *Store) items() *goqu.SelectDataset {
	return s.dialect.From("items").Select(itemColumns...)
}

// CreateItem creates a new item for its owner.
func (s *Store) CreateItem(ctx context.Context, it model.Item) (*model.Item, error) {
	id, err := s.insert(ctx, s.dialect.Insert("items").Rows(goqu.Record{
		"name":        it.Name,
		"description": it.Description,
		"available":   it.Available,
		"owner_id":    it.OwnerID,
		"request_id":  it.RequestID,
	}))
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item := &model.Item{}
	found, err := s.get(ctx, item, s.items().Where(goqu.C("id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if !found {
		return nil, nil
	}
	item.CreatedAt = utc(item.CreatedAt)
	return item, nil
}

// UpdateItem stores an item's name, description and availability.
// The owner and originating request are never changed.
func (s *Store) UpdateItem(ctx context.Context, it model.Item) error {
	query, args, err := s.dialect.Update("items").
		Set(goqu.Record{"name": it.Name, "description": it.Description, "available": it.Available}).
		Where(goqu.C("id").Eq(it.ID)).
		Prepared(true).ToSQL()
	if _, err := s.exec(ctx, query, args, err); err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// ListItemsByOwner returns a page of an owner's items ordered by ID.
func (s *Store) ListItemsByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error) {
	ds := s.items().
		Where(goqu.C("owner_id").Eq(ownerID)).
		Order(goqu.C("id").Asc()).
		Offset(uint(page.Offset())).
		Limit(uint(page.Limit()))

	items, err := s.listItems(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("listing owner items: %w", err)
	}
	return items, nil
}

// SearchItems returns a page of available items whose name or description
// contains text, ignoring case.
func (s *Store) SearchItems(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
	ds := s.items().
		Where(
			goqu.C("available").IsTrue(),
			goqu.Or(
				s.containsFolded("name", pattern),
				s.containsFolded("description", pattern),
			),
		).
		Order(goqu.C("id").Asc()).
		Offset(uint(page.Offset())).
		Limit(uint(page.Limit()))

	items, err := s.listItems(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	return items, nil
}

// likeEscaper makes LIKE wildcards in user text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsFolded matches column against an escaped, lowercased LIKE pattern.
func (s *Store) containsFolded(column, pattern string) exp.LiteralExpression {
	return goqu.L(`? LIKE ? ESCAPE '\'`, goqu.Func(s.lower, goqu.C(column)), pattern)
}

// ListItemsByRequest returns items listed in answer to any of the given requests.
func (s *Store) ListItemsByRequest(ctx context.Context, requestIDs ...int64) ([]model.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	ds := s.items().
		Where(goqu.C("request_id").In(requestIDs)).
		Order(goqu.C("id").Asc())

	items, err := s.listItems(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("listing request items: %w", err)
	}
	return items, nil
}

func (s *Store) listItems(ctx context.Context, ds *goqu.SelectDataset) ([]model.Item, error) {
	var items []model.Item
	if err := s.list(ctx, &items, ds); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].CreatedAt = utc(items[i].CreatedAt)
	}
	return items, nil
}

// SetItemImage stores an item's photo and its thumbnail.
func (s *Store) SetItemImage(ctx context.Context, id int64, image []byte, mime string, thumbnail []byte) error {
	query, args, err := s.dialect.Update("items").
		Set(goqu.Record{"image": image, "image_mime": mime, "thumbnail": thumbnail}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if _, err := s.exec(ctx, query, args, err); err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's photo (or thumbnail) and its MIME type.
// It returns nil data when the item has no photo.
func (s *Store) GetItemImage(ctx context.Context, id int64, thumbnail bool) ([]byte, string, error) {
	column := "image"
	if thumbnail {
		column = "thumbnail"
	}

	var row struct {
		Data []byte  `db:"data"`
		MIME *string `db:"image_mime"`
	}
	found, err := s.get(ctx, &row, s.dialect.From("items").
		Select(goqu.C(column).As("data"), "image_mime").
		Where(goqu.C("id").Eq(id)))
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	if !found || row.MIME == nil {
		return nil, "", nil
	}
	return row.Data, *row.MIME, nil
}

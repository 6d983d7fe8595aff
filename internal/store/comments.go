package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/erazemk/izposoja/internal/model"
)

// CreateComment stores a comment and returns it with the author's name.
func (s *Store) CreateComment(ctx context.Context, c model.Comment) (*model.Comment, error) {
	id, err := s.insert(ctx, s.dialect.Insert("comments").Rows(goqu.Record{
		"text":       c.Text,
		"item_id":    c.ItemID,
		"author_id":  c.AuthorID,
		"created_at": utc(c.CreatedAt),
	}))
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	created := &model.Comment{}
	found, err := s.get(ctx, created, s.comments().Where(goqu.I("c.id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("getting comment: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("getting comment: comment %d vanished", id)
	}
	created.CreatedAt = utc(created.CreatedAt)
	return created, nil
}

// ListComments returns an item's comments, newest first.
func (s *Store) ListComments(ctx context.Context, itemID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.list(ctx, &comments, s.comments().
		Where(goqu.I("c.item_id").Eq(itemID)).
		Order(goqu.I("c.created_at").Desc(), goqu.I("c.id").Desc()))
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	for i := range comments {
		comments[i].CreatedAt = utc(comments[i].CreatedAt)
	}
	return comments, nil
}

func (s *Store) comments() *goqu.SelectDataset {
	return s.dialect.From(goqu.T("comments").As("c")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.author_id")))).
		Select(
			goqu.I("c.id"),
			goqu.I("c.text"),
			goqu.I("c.item_id"),
			goqu.I("c.author_id"),
			goqu.I("c.created_at"),
			goqu.I("u.name").As("author_name"),
		)
}

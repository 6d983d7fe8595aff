package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/izposoja/internal/imaging"
	"github.com/erazemk/izposoja/internal/model"
)

func TestCreateItemForRequest(t *testing.T) {
	f := newFixture(t)
	asker := f.user(t, "asker")
	owner := f.user(t, "owner")

	missing := int64(999)
	_, err := f.svc.CreateItem(f.ctx, owner.ID, NewItem{Name: "Tent", Available: true, RequestID: &missing})
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = f.svc.CreateItem(f.ctx, 999, NewItem{Name: "Tent", Available: true})
	assert.ErrorIs(t, err, ErrUserNotFound)

	req, err := f.svc.CreateRequest(f.ctx, asker.ID, "Need a tent")
	require.NoError(t, err)

	item, err := f.svc.CreateItem(f.ctx, owner.ID, NewItem{Name: "Tent", Available: true, RequestID: &req.ID})
	require.NoError(t, err)
	require.NotNil(t, item.RequestID)
	assert.Equal(t, req.ID, *item.RequestID)
}

func TestUpdateItemOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	other := f.user(t, "other")
	item := f.item(t, owner.ID, true)

	patch := model.ItemPatch{Available: model.Some(false)}

	_, err := f.svc.UpdateItem(f.ctx, other.ID, item.ID, patch)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.UpdateItem(f.ctx, owner.ID, 999, patch)
	assert.ErrorIs(t, err, ErrItemNotFound)

	updated, err := f.svc.UpdateItem(f.ctx, owner.ID, item.ID, patch)
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, item.Name, updated.Name, "absent fields are kept")
	assert.Equal(t, owner.ID, updated.OwnerID)
}

func TestItemViewOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	booker := f.user(t, "booker")
	item := f.item(t, owner.ID, true)

	view, err := f.svc.GetItem(f.ctx, owner.ID, item.ID)
	require.NoError(t, err)
	assert.Nil(t, view.LastBooking, "no bookings yet")
	assert.Nil(t, view.NextBooking, "no bookings yet")
	assert.NotNil(t, view.Comments)

	f.clock.Set(testNow.Add(-2 * day))
	last := f.book(t, booker.ID, item.ID, time.Hour, day)          // T-2d+1h .. T-1d
	skipped := f.book(t, booker.ID, item.ID, day+time.Hour, 3*day) // rejected, spans T
	next := f.book(t, booker.ID, item.ID, 3*day, 4*day)            // T+1d
	f.book(t, booker.ID, item.ID, 5*day, 6*day)                    // T+3d
	f.clock.Set(testNow)

	_, err = f.svc.DecideBooking(f.ctx, owner.ID, skipped.ID, false)
	require.NoError(t, err)

	view, err = f.svc.GetItem(f.ctx, owner.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, view.LastBooking)
	require.NotNil(t, view.NextBooking)
	assert.Equal(t, last.ID, view.LastBooking.ID)
	assert.Equal(t, next.ID, view.NextBooking.ID)

	view, err = f.svc.GetItem(f.ctx, booker.ID, item.ID)
	require.NoError(t, err)
	assert.Nil(t, view.LastBooking, "only the owner sees bookings")
	assert.Nil(t, view.NextBooking, "only the owner sees bookings")

	views, err := f.svc.ListOwnerItems(f.ctx, owner.ID, model.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].NextBooking)
	assert.Equal(t, next.ID, views[0].NextBooking.ID)
}

func TestCommentScenario(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	booker := f.user(t, "booker")
	item := f.item(t, owner.ID, true)

	_, err := f.svc.AddComment(f.ctx, booker.ID, item.ID, "Great drill")
	assert.ErrorIs(t, err, ErrNotACompletedRenter)

	// A booking that has not ended yet does not count.
	f.book(t, booker.ID, item.ID, time.Hour, 2*time.Hour)
	_, err = f.svc.AddComment(f.ctx, booker.ID, item.ID, "Great drill")
	assert.ErrorIs(t, err, ErrNotACompletedRenter)

	f.clock.Advance(3 * time.Hour)
	c, err := f.svc.AddComment(f.ctx, booker.ID, item.ID, "Great drill")
	require.NoError(t, err)
	assert.Equal(t, "Great drill", c.Text)
	assert.Equal(t, "booker", c.AuthorName)
	assert.True(t, c.CreatedAt.Equal(f.clock.Now()))

	view, err := f.svc.GetItem(f.ctx, owner.ID, item.ID)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, c.ID, view.Comments[0].ID)
}

func TestAddCommentChecksInOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	item := f.item(t, owner.ID, true)

	_, err := f.svc.AddComment(f.ctx, 999, 999, "x")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.AddComment(f.ctx, owner.ID, 999, "x")
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = f.svc.AddComment(f.ctx, owner.ID, item.ID, "x")
	assert.ErrorIs(t, err, ErrNotACompletedRenter)
}

func TestSearchItems(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	f.item(t, owner.ID, true)
	f.item(t, owner.ID, false)

	found, err := f.svc.SearchItems(f.ctx, "DRILL", model.Page{Size: 10})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = f.svc.SearchItems(f.ctx, "   ", model.Page{Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestItemImage(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	other := f.user(t, "other")
	item := f.item(t, owner.ID, true)

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	img.Set(0, 0, color.White)
	require.NoError(t, png.Encode(&buf, img))

	_, _, err := f.svc.ItemImage(f.ctx, item.ID, false)
	assert.ErrorIs(t, err, ErrImageNotFound)

	_, err = f.svc.SetItemImage(f.ctx, other.ID, item.ID, bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.SetItemImage(f.ctx, 999, item.ID, bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.SetItemImage(f.ctx, owner.ID, item.ID, strings.NewReader("not an image"))
	assert.ErrorIs(t, err, imaging.ErrUnsupported)

	photo, err := f.svc.SetItemImage(f.ctx, owner.ID, item.ID, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 40, photo.Width)

	data, mime, err := f.svc.ItemImage(f.ctx, item.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, photo.Thumbnail, data)
}

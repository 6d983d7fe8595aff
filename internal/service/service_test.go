package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/izposoja/internal/clock"
	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	clock *clock.Fixed
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.New(db.NewTestDB(t), db.DriverSQLite)
	require.NoError(t, err)
	clk := clock.NewFixed(testNow)
	return &fixture{svc: New(st, clk, nil), clock: clk, ctx: context.Background()}
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := f.svc.CreateUser(f.ctx, name, name+"@example.com")
	require.NoError(t, err)
	return u
}

func (f *fixture) item(t *testing.T, ownerID int64, available bool) *model.Item {
	t.Helper()
	it, err := f.svc.CreateItem(f.ctx, ownerID, NewItem{Name: "Drill", Description: "Cordless drill", Available: available})
	require.NoError(t, err)
	return it
}

func (f *fixture) book(t *testing.T, bookerID, itemID int64, start, end time.Duration) *model.Booking {
	t.Helper()
	now := f.clock.Now()
	b, err := f.svc.CreateBooking(f.ctx, bookerID, model.NewBooking{ItemID: itemID, Start: now.Add(start), End: now.Add(end)})
	require.NoError(t, err)
	return b
}

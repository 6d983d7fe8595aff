package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/izposoja/internal/model"
)

type bookingFixture struct {
	store  *Store
	now    time.Time
	owner  *model.User
	booker *model.User
	item   *model.Item
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	s := newTestStore(t)
	owner := createTestUser(t, s, "owner")
	return &bookingFixture{
		store:  s,
		now:    time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		owner:  owner,
		booker: createTestUser(t, s, "booker"),
		item:   createTestItem(t, s, owner.ID, "Drill", "Cordless", true),
	}
}

func (f *bookingFixture) book(t *testing.T, start, end time.Duration, status model.Status) *model.Booking {
	t.Helper()
	b, err := f.store.CreateBooking(context.Background(), model.Booking{
		Start:    f.now.Add(start),
		End:      f.now.Add(end),
		Status:   status,
		ItemID:   f.item.ID,
		BookerID: f.booker.ID,
	})
	require.NoError(t, err)
	return b
}

func TestCreateAndGetBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b := f.book(t, time.Hour, 2*time.Hour, "")
	assert.Equal(t, model.StatusWaiting, b.Status)
	assert.True(t, b.Start.Equal(f.now.Add(time.Hour)), "start %v", b.Start)
	assert.True(t, b.End.Equal(f.now.Add(2*time.Hour)), "end %v", b.End)
	require.NotNil(t, b.Item)
	require.NotNil(t, b.Booker)
	assert.Equal(t, "Drill", b.Item.Name)
	assert.Equal(t, f.owner.ID, b.OwnerID())
	assert.Equal(t, "booker", b.Booker.Name)

	missing, err := f.store.GetBooking(ctx, b.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateBookingRejectsEmptyRange(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.store.CreateBooking(context.Background(), model.Booking{
		Start:    f.now,
		End:      f.now,
		ItemID:   f.item.ID,
		BookerID: f.booker.ID,
	})
	assert.Error(t, err)
}

func TestDecideBookingOnlyOnce(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.book(t, time.Hour, 2*time.Hour, "")

	ok, err := f.store.DecideBooking(ctx, b.ID, model.StatusApproved)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.store.DecideBooking(ctx, b.ID, model.StatusRejected)
	require.NoError(t, err)
	assert.False(t, ok, "second decision must not apply")

	got, err := f.store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestListBookingsAgreesWithState(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	day := 24 * time.Hour

	all := []*model.Booking{
		f.book(t, -3*day, -2*day, model.StatusApproved),            // past
		f.book(t, -time.Hour, time.Hour, model.StatusWaiting),      // current
		f.book(t, 0, time.Hour, model.StatusApproved),              // starts now
		f.book(t, -time.Hour, 0, model.StatusApproved),             // ends now
		f.book(t, day, 2*day, model.StatusWaiting),                 // future
		f.book(t, 2*day, 3*day, model.StatusRejected),              // future, rejected
		f.book(t, -2*day, -day, model.StatusRejected),              // past, rejected
		f.book(t, time.Minute, 2*time.Minute, model.StatusWaiting), // near future
	}

	states := []model.State{
		model.StateAll, model.StateCurrent, model.StatePast,
		model.StateFuture, model.StateWaiting, model.StateRejected,
	}

	for _, perspective := range []model.Perspective{model.PerspectiveBooker, model.PerspectiveOwner} {
		subject := f.booker.ID
		if perspective == model.PerspectiveOwner {
			subject = f.owner.ID
		}

		for _, state := range states {
			q := BookingQuery{SubjectID: subject, Perspective: perspective, Page: model.Page{Size: 100}}
			got, err := f.store.ListBookings(ctx, q.ForState(state, f.now))
			require.NoError(t, err)

			var want []int64
			for _, b := range all {
				if state.Matches(*b, f.now) {
					want = append(want, b.ID)
				}
			}

			var ids []int64
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.ElementsMatch(t, want, ids, "state %v, perspective %d", state, perspective)

			for i := 1; i < len(got); i++ {
				assert.False(t, got[i].Start.After(got[i-1].Start), "state %v not ordered by start desc", state)
			}
		}
	}
}

func TestListBookingsPerspective(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.book(t, time.Hour, 2*time.Hour, "")

	// The owner has booked nothing, and the booker owns nothing.
	got, err := f.store.ListBookings(ctx, BookingQuery{SubjectID: f.owner.ID, Perspective: model.PerspectiveBooker})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.store.ListBookings(ctx, BookingQuery{SubjectID: f.booker.ID, Perspective: model.PerspectiveOwner})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListBookingsPageIndex(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 7; i++ {
		ids = append(ids, f.book(t, time.Duration(i+1)*time.Hour, time.Duration(i+2)*time.Hour, "").ID)
	}
	// Newest start first.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	page := func(from, size int) []int64 {
		got, err := f.store.ListBookings(ctx, BookingQuery{
			SubjectID: f.booker.ID,
			Page:      model.Page{From: from, Size: size},
		})
		require.NoError(t, err)
		var out []int64
		for _, b := range got {
			out = append(out, b.ID)
		}
		return out
	}

	assert.Equal(t, ids[:5], page(0, 5))
	assert.Equal(t, ids[:5], page(3, 5), "from inside the first block selects the first page")
	assert.Equal(t, ids[5:], page(5, 5))
}

func TestLastAndNextBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	day := 24 * time.Hour

	last, err := f.store.LastBooking(ctx, f.item.ID, f.now)
	require.NoError(t, err)
	assert.Nil(t, last)
	next, err := f.store.NextBooking(ctx, f.item.ID, f.now)
	require.NoError(t, err)
	assert.Nil(t, next)

	f.book(t, -3*day, -2*day, model.StatusApproved)
	lastWant := f.book(t, -day, -time.Hour, model.StatusWaiting)
	f.book(t, -time.Hour, day, model.StatusRejected) // rejected bookings never count
	nextWant := f.book(t, day, 2*day, model.StatusApproved)
	f.book(t, 2*day, 3*day, model.StatusWaiting)
	f.book(t, time.Hour, 2*time.Hour, model.StatusRejected)

	last, err = f.store.LastBooking(ctx, f.item.ID, f.now)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, lastWant.ID, last.ID)

	next, err = f.store.NextBooking(ctx, f.item.ID, f.now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, nextWant.ID, next.ID)
}

func TestHasCompletedBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	ok, err := f.store.HasCompletedBooking(ctx, f.booker.ID, f.item.ID, f.now)
	require.NoError(t, err)
	assert.False(t, ok)

	// Ending exactly now is not completed yet.
	f.book(t, -time.Hour, 0, model.StatusApproved)
	ok, err = f.store.HasCompletedBooking(ctx, f.booker.ID, f.item.ID, f.now)
	require.NoError(t, err)
	assert.False(t, ok)

	f.book(t, -2*time.Hour, -time.Minute, model.StatusApproved)
	ok, err = f.store.HasCompletedBooking(ctx, f.booker.ID, f.item.ID, f.now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.store.HasCompletedBooking(ctx, f.owner.ID, f.item.ID, f.now)
	require.NoError(t, err)
	assert.False(t, ok)
}

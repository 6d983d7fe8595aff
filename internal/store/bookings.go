package store

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/erazemk/izposoja/internal/model"
)

// BookingQuery selects a page of bookings for one subject.
//
// Zero time bounds and an empty status are not applied. Rows are always
// ordered by start time, most recent first.
type BookingQuery struct {
	SubjectID   int64
	Perspective model.Perspective

	StartAtOrBefore time.Time // start <= t
	StartAfter      time.Time // start > t
	EndAfter        time.Time // end > t
	EndBefore       time.Time // end < t
	Status          model.Status

	Page model.Page
}

// ForState narrows q to bookings in state at instant now. Values outside the
// state vocabulary leave q unfiltered, like StateAll.
func (q BookingQuery) ForState(state model.State, now time.Time) BookingQuery {
	switch state {
	case model.StateCurrent:
		q.StartAtOrBefore = now
		q.EndAfter = now
	case model.StatePast:
		q.EndBefore = now
	case model.StateFuture:
		q.StartAfter = now
	case model.StateWaiting:
		q.Status = model.StatusWaiting
	case model.StateRejected:
		q.Status = model.StatusRejected
	}
	return q
}

// bookingRow is a booking joined with its item and booker.
type bookingRow struct {
	ID       int64        `db:"id"`
	Start    time.Time    `db:"start_at"`
	End      time.Time    `db:"end_at"`
	Status   model.Status `db:"status"`
	ItemID   int64        `db:"item_id"`
	BookerID int64        `db:"booker_id"`

	ItemName        string `db:"item_name"`
	ItemDescription string `db:"item_description"`
	ItemAvailable   bool   `db:"item_available"`
	ItemOwnerID     int64  `db:"item_owner_id"`
	BookerName      string `db:"booker_name"`
	BookerEmail     string `db:"booker_email"`
}

func (r bookingRow) toModel() model.Booking {
	return model.Booking{
		ID:       r.ID,
		Start:    utc(r.Start),
		End:      utc(r.End),
		Status:   r.Status,
		ItemID:   r.ItemID,
		BookerID: r.BookerID,
		Item: &model.ItemSummary{
			ID:          r.ItemID,
			Name:        r.ItemName,
			Description: r.ItemDescription,
			Available:   r.ItemAvailable,
			OwnerID:     r.ItemOwnerID,
		},
		Booker: &model.UserSummary{
			ID:    r.BookerID,
			Name:  r.BookerName,
			Email: r.BookerEmail,
		},
	}
}

// bookings selects bookings joined with their item and booker.
func (s *Store) bookings() *goqu.SelectDataset {
	return s.dialect.From(goqu.T("bookings").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.booker_id")))).
		Select(
			goqu.I("b.id"),
			goqu.I("b.start_at"),
			goqu.I("b.end_at"),
			goqu.I("b.status"),
			goqu.I("b.item_id"),
			goqu.I("b.booker_id"),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.description").As("item_description"),
			goqu.I("i.available").As("item_available"),
			goqu.I("i.owner_id").As("item_owner_id"),
			goqu.I("u.name").As("booker_name"),
			goqu.I("u.email").As("booker_email"),
		)
}

// CreateBooking inserts a new booking and returns it joined with its item and booker.
func (s *Store) CreateBooking(ctx context.Context, b model.Booking) (*model.Booking, error) {
	status := b.Status
	if status == "" {
		status = model.StatusWaiting
	}

	id, err := s.insert(ctx, s.dialect.Insert("bookings").Rows(goqu.Record{
		"start_at":  utc(b.Start),
		"end_at":    utc(b.End),
		"item_id":   b.ItemID,
		"booker_id": b.BookerID,
		"status":    string(status),
	}))
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	return s.GetBooking(ctx, id)
}

// GetBooking returns a booking by ID, joined with its item and booker.
func (s *Store) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var row bookingRow
	found, err := s.get(ctx, &row, s.bookings().Where(goqu.I("b.id").Eq(id)))
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	if !found {
		return nil, nil
	}
	b := row.toModel()
	return &b, nil
}

// DecideBooking moves a WAITING booking to status in a single conditional
// update. It reports false when the booking was no longer WAITING.
func (s *Store) DecideBooking(ctx context.Context, id int64, status model.Status) (bool, error) {
	query, args, err := s.dialect.Update("bookings").
		Set(goqu.Record{"status": string(status)}).
		Where(goqu.C("id").Eq(id), goqu.C("status").Eq(string(model.StatusWaiting))).
		Prepared(true).ToSQL()
	n, err := s.exec(ctx, query, args, err)
	if err != nil {
		return false, fmt.Errorf("deciding booking: %w", err)
	}
	return n == 1, nil
}

// ListBookings returns a page of bookings matching q.
func (s *Store) ListBookings(ctx context.Context, q BookingQuery) ([]model.Booking, error) {
	ds := s.bookings().
		Where(bookingConditions(q)...).
		Order(goqu.I("b.start_at").Desc(), goqu.I("b.id").Desc()).
		Offset(uint(q.Page.Offset())).
		Limit(uint(q.Page.Limit()))

	bookings, err := s.listBookings(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return bookings, nil
}

func bookingConditions(q BookingQuery) []exp.Expression {
	var conds []exp.Expression

	if q.Perspective == model.PerspectiveOwner {
		conds = append(conds, goqu.I("i.owner_id").Eq(q.SubjectID))
	} else {
		conds = append(conds, goqu.I("b.booker_id").Eq(q.SubjectID))
	}

	if !q.StartAtOrBefore.IsZero() {
		conds = append(conds, goqu.I("b.start_at").Lte(utc(q.StartAtOrBefore)))
	}
	if !q.StartAfter.IsZero() {
		conds = append(conds, goqu.I("b.start_at").Gt(utc(q.StartAfter)))
	}
	if !q.EndAfter.IsZero() {
		conds = append(conds, goqu.I("b.end_at").Gt(utc(q.EndAfter)))
	}
	if !q.EndBefore.IsZero() {
		conds = append(conds, goqu.I("b.end_at").Lt(utc(q.EndBefore)))
	}
	if q.Status != "" {
		conds = append(conds, goqu.I("b.status").Eq(string(q.Status)))
	}

	return conds
}

// LastBooking returns the non-rejected booking on an item that started at or
// before now and ends latest, or nil if there is none.
func (s *Store) LastBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	ds := s.bookings().
		Where(
			goqu.I("b.item_id").Eq(itemID),
			goqu.I("b.status").Neq(string(model.StatusRejected)),
			goqu.I("b.start_at").Lte(utc(now)),
		).
		Order(goqu.I("b.end_at").Desc(), goqu.I("b.id").Desc())

	b, err := s.topBooking(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("getting last booking: %w", err)
	}
	return b, nil
}

// NextBooking returns the non-rejected booking on an item that starts soonest
// after now, or nil if there is none.
func (s *Store) NextBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	ds := s.bookings().
		Where(
			goqu.I("b.item_id").Eq(itemID),
			goqu.I("b.status").Neq(string(model.StatusRejected)),
			goqu.I("b.start_at").Gt(utc(now)),
		).
		Order(goqu.I("b.start_at").Asc(), goqu.I("b.id").Asc())

	b, err := s.topBooking(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("getting next booking: %w", err)
	}
	return b, nil
}

func (s *Store) topBooking(ctx context.Context, ds *goqu.SelectDataset) (*model.Booking, error) {
	var row bookingRow
	found, err := s.get(ctx, &row, ds.Limit(1))
	if err != nil || !found {
		return nil, err
	}
	b := row.toModel()
	return &b, nil
}

// HasCompletedBooking reports whether the booker has a booking on the item
// that ended before now.
func (s *Store) HasCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	ok, err := s.exists(ctx, s.dialect.From("bookings").Where(
		goqu.C("booker_id").Eq(bookerID),
		goqu.C("item_id").Eq(itemID),
		goqu.C("end_at").Lt(utc(now)),
	))
	if err != nil {
		return false, fmt.Errorf("checking completed booking: %w", err)
	}
	return ok, nil
}

func (s *Store) listBookings(ctx context.Context, ds *goqu.SelectDataset) ([]model.Booking, error) {
	var rows []bookingRow
	if err := s.list(ctx, &rows, ds); err != nil {
		return nil, err
	}
	bookings := make([]model.Booking, 0, len(rows))
	for _, r := range rows {
		bookings = append(bookings, r.toModel())
	}
	return bookings, nil
}

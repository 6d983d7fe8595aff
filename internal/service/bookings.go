package service

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// CreateBooking requests item in.ItemID for the window [in.Start, in.End).
// The new booking is WAITING and the item's availability is not changed.
func (s *Service) CreateBooking(ctx context.Context, bookerID int64, in model.NewBooking) (_ *model.Booking, err error) {
	defer s.observe("create_booking", time.Now(), &err)

	if err := s.requireUser(ctx, bookerID); err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !in.Start.Before(in.End) {
		return nil, ErrBadRange
	}
	if item.OwnerID == bookerID {
		return nil, ErrSelfBooking
	}
	if !item.Available {
		return nil, ErrUnavailable
	}

	b, err := s.store.CreateBooking(ctx, model.Booking{
		Start:    in.Start,
		End:      in.End,
		Status:   model.StatusWaiting,
		ItemID:   item.ID,
		BookerID: bookerID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	return b, nil
}

// DecideBooking approves or rejects a WAITING booking on the owner's item.
// A booking is decided at most once; concurrent decisions race on a
// conditional update and the loser gets the winner's conflict.
func (s *Service) DecideBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (_ *model.Booking, err error) {
	defer s.observe("decide_booking", time.Now(), &err)

	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("deciding booking: %w", err)
	}
	if b == nil {
		return nil, notFound(ErrBookingNotFound, bookingID)
	}
	if err := decided(b.Status); err != nil {
		return nil, err
	}
	if b.OwnerID() != ownerID {
		return nil, ErrNotOwner
	}

	status := model.StatusRejected
	if approved {
		status = model.StatusApproved
	}

	applied, err := s.store.DecideBooking(ctx, bookingID, status)
	if err != nil {
		return nil, fmt.Errorf("deciding booking: %w", err)
	}

	b, err = s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("deciding booking: %w", err)
	}
	if b == nil {
		return nil, notFound(ErrBookingNotFound, bookingID)
	}
	if !applied {
		if err := decided(b.Status); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("deciding booking %d: status is %s", bookingID, b.Status)
	}

	s.metrics.BookingDecided(string(status))
	return b, nil
}

// decided returns the conflict for a booking that is no longer WAITING.
func decided(status model.Status) error {
	switch status {
	case model.StatusApproved:
		return ErrAlreadyApproved
	case model.StatusRejected:
		return ErrAlreadyRejected
	}
	return nil
}

// GetBooking returns a booking to its booker or to the item's owner.
func (s *Service) GetBooking(ctx context.Context, userID, bookingID int64) (_ *model.Booking, err error) {
	defer s.observe("get_booking", time.Now(), &err)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	if b == nil {
		return nil, notFound(ErrBookingNotFound, bookingID)
	}
	if b.BookerID != userID && b.OwnerID() != userID {
		return nil, ErrNotParticipant
	}
	return b, nil
}

// ListBookings returns a page of the user's bookings in state, seen either
// as the booker or as the owner of the booked items. Newest start first.
func (s *Service) ListBookings(ctx context.Context, userID int64, state model.State, page model.Page, perspective model.Perspective) (_ []model.Booking, err error) {
	defer s.observe("list_bookings", time.Now(), &err)

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	q := store.BookingQuery{
		SubjectID:   userID,
		Perspective: perspective,
		Page:        page,
	}.ForState(state, now)

	bookings, err := s.store.ListBookings(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

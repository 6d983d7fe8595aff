// Package service holds the marketplace's business rules: the booking
// lifecycle, the owner's availability view of an item and who may comment.
//
// Every operation reads the clock once and validates its inputs in a fixed
// order, failing with the first *Error that applies.
package service

import (
	"context"
	"time"

	"github.com/erazemk/izposoja/internal/clock"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// Store is the persistence the service needs.
type Store interface {
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u model.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, it model.Item) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	UpdateItem(ctx context.Context, it model.Item) error
	ListItemsByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error)
	SearchItems(ctx context.Context, text string, page model.Page) ([]model.Item, error)
	ListItemsByRequest(ctx context.Context, requestIDs ...int64) ([]model.Item, error)
	SetItemImage(ctx context.Context, id int64, image []byte, mime string, thumbnail []byte) error
	GetItemImage(ctx context.Context, id int64, thumbnail bool) ([]byte, string, error)

	CreateBooking(ctx context.Context, b model.Booking) (*model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	DecideBooking(ctx context.Context, id int64, status model.Status) (bool, error)
	ListBookings(ctx context.Context, q store.BookingQuery) ([]model.Booking, error)
	LastBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	NextBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	HasCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)

	CreateComment(ctx context.Context, c model.Comment) (*model.Comment, error)
	ListComments(ctx context.Context, itemID int64) ([]model.Comment, error)

	CreateRequest(ctx context.Context, r model.ItemRequest) (*model.ItemRequest, error)
	GetRequest(ctx context.Context, id int64) (*model.ItemRequest, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
	ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error)
	ListRequestsExcept(ctx context.Context, userID int64, page model.Page) ([]model.ItemRequest, error)
}

var _ Store = (*store.Store)(nil)

// Recorder receives operation outcomes. *metrics.Metrics implements it.
type Recorder interface {
	Observe(operation string, success bool, d time.Duration)
	BookingDecided(status string)
}

type noopRecorder struct{}

func (noopRecorder) Observe(string, bool, time.Duration) {}
func (noopRecorder) BookingDecided(string)               {}

// Service implements the marketplace operations on top of a Store.
type Service struct {
	store   Store
	clock   clock.Clock
	metrics Recorder
}

// New creates a service. A nil clock reads the system clock and a nil
// recorder discards measurements.
func New(st Store, clk clock.Clock, rec Recorder) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Service{store: st, clock: clk, metrics: rec}
}

// Now returns the service's current instant.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// observe records an operation's outcome. Use it deferred with a pointer
// to the named error result.
func (s *Service) observe(operation string, started time.Time, err *error) {
	s.metrics.Observe(operation, *err == nil, time.Since(started))
}

// requireUser fails with ErrUserNotFound unless the user exists.
func (s *Service) requireUser(ctx context.Context, id int64) error {
	ok, err := s.store.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(ErrUserNotFound, id)
	}
	return nil
}

// requireItem returns the item or fails with ErrItemNotFound.
func (s *Service) requireItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound(ErrItemNotFound, id)
	}
	return item, nil
}

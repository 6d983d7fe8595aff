package model

import (
	"fmt"
	"time"
)

// Status is the approval state of a booking.
type Status string

// Booking statuses. WAITING is the only initial status; the other two are terminal.
const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking is a time-boxed reservation of an item by a booker.
type Booking struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   Status    `json:"status"`
	ItemID   int64     `json:"item_id"`
	BookerID int64     `json:"booker_id"`

	// Joined fields (not always populated).
	Item   *ItemSummary `json:"item,omitempty"`
	Booker *UserSummary `json:"booker,omitempty"`
}

// OwnerID returns the owner of the booked item, or 0 if the item is not joined.
func (b *Booking) OwnerID() int64 {
	if b.Item == nil {
		return 0
	}
	return b.Item.OwnerID
}

// State selects bookings by their relation to "now" or by status.
type State int

// Listing states.
const (
	StateAll State = iota
	StateCurrent
	StatePast
	StateFuture
	StateWaiting
	StateRejected
)

var stateNames = [...]string{
	StateAll:      "ALL",
	StateCurrent:  "CURRENT",
	StatePast:     "PAST",
	StateFuture:   "FUTURE",
	StateWaiting:  "WAITING",
	StateRejected: "REJECTED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState parses a listing state token. An empty token means ALL.
func ParseState(token string) (State, error) {
	if token == "" {
		return StateAll, nil
	}
	for i, name := range stateNames {
		if name == token {
			return State(i), nil
		}
	}
	return StateAll, fmt.Errorf("unknown state: %s", token)
}

// Matches reports whether b falls into state s at instant now.
//
// CURRENT is the half-open window start <= now < end. PAST is end < now and
// FUTURE is start > now. Any value outside the vocabulary matches everything.
func (s State) Matches(b Booking, now time.Time) bool {
	switch s {
	case StateCurrent:
		return !b.Start.After(now) && b.End.After(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return true
	}
}

// Perspective selects whose bookings a listing returns.
type Perspective int

const (
	// PerspectiveBooker lists bookings made by the subject.
	PerspectiveBooker Perspective = iota
	// PerspectiveOwner lists bookings on items owned by the subject.
	PerspectiveOwner
)

// NewBooking is the input of a booking request.
type NewBooking struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

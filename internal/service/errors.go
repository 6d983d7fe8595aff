package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid range")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Reason names the specific rule behind an error.
type Reason string

// Reasons carried by service errors.
const (
	ReasonUser                Reason = "User"
	ReasonItem                Reason = "Item"
	ReasonBooking             Reason = "Booking"
	ReasonRequest             Reason = "Request"
	ReasonImage               Reason = "Image"
	ReasonRange               Reason = "Range"
	ReasonSelfBooking         Reason = "SelfBooking"
	ReasonNotOwner            Reason = "NotOwner"
	ReasonNotParticipant      Reason = "NotParticipant"
	ReasonNotACompletedRenter Reason = "NotACompletedRenter"
	ReasonUnavailable         Reason = "Unavailable"
	ReasonAlreadyApproved     Reason = "AlreadyApproved"
	ReasonAlreadyRejected     Reason = "AlreadyRejected"
	ReasonDuplicateEmail      Reason = "DuplicateEmail"
)

// Error is a typed business failure.
type Error struct {
	Kind   error
	Reason Reason
	Msg    string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Is matches errors of the same kind and reason, so the values below can be
// used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Reason == e.Reason
}

var (
	ErrUserNotFound    = &Error{Kind: ErrNotFound, Reason: ReasonUser, Msg: "user not found"}
	ErrItemNotFound    = &Error{Kind: ErrNotFound, Reason: ReasonItem, Msg: "item not found"}
	ErrBookingNotFound = &Error{Kind: ErrNotFound, Reason: ReasonBooking, Msg: "booking not found"}
	ErrRequestNotFound = &Error{Kind: ErrNotFound, Reason: ReasonRequest, Msg: "item request not found"}
	ErrImageNotFound   = &Error{Kind: ErrNotFound, Reason: ReasonImage, Msg: "item has no image"}

	ErrBadRange = &Error{Kind: ErrInvalidRange, Reason: ReasonRange, Msg: "booking must start before it ends"}

	ErrSelfBooking         = &Error{Kind: ErrForbidden, Reason: ReasonSelfBooking, Msg: "owner cannot book their own item"}
	ErrNotOwner            = &Error{Kind: ErrForbidden, Reason: ReasonNotOwner, Msg: "only the item owner can do this"}
	ErrNotParticipant      = &Error{Kind: ErrForbidden, Reason: ReasonNotParticipant, Msg: "only the booker or the item owner can view this booking"}
	ErrNotACompletedRenter = &Error{Kind: ErrForbidden, Reason: ReasonNotACompletedRenter, Msg: "only users who have finished renting the item can comment"}

	ErrUnavailable     = &Error{Kind: ErrConflict, Reason: ReasonUnavailable, Msg: "item is not available"}
	ErrAlreadyApproved = &Error{Kind: ErrConflict, Reason: ReasonAlreadyApproved, Msg: "booking is already approved"}
	ErrAlreadyRejected = &Error{Kind: ErrConflict, Reason: ReasonAlreadyRejected, Msg: "booking is already rejected"}
	ErrDuplicateEmail  = &Error{Kind: ErrConflict, Reason: ReasonDuplicateEmail, Msg: "email already in use"}
)

// notFound returns a copy of base naming the missing id.
func notFound(base *Error, id int64) *Error {
	return &Error{Kind: base.Kind, Reason: base.Reason, Msg: fmt.Sprintf("%s: %d", base.Msg, id)}
}

// ReasonOf returns the reason of a service error, or "" for any other error.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

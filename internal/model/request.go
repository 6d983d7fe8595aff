package model

import "time"

// ItemRequest asks the community for an item nobody lists yet.
type ItemRequest struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	RequestorID int64     `json:"requestor_id" db:"requestor_id"`
	CreatedAt   time.Time `json:"created" db:"created_at"`

	// Items listed in answer to the request.
	Items []Item `json:"items" db:"-"`
}

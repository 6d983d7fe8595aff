package model

import "time"

// Comment is feedback left by a renter after a completed booking.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	ItemID    int64     `json:"item_id" db:"item_id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created" db:"created_at"`

	// Joined field (not always populated).
	AuthorName string `json:"author_name,omitempty" db:"author_name"`
}

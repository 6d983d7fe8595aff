package model

import "time"

// Item is a lendable thing listed by its owner.
type Item struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Available   bool      `json:"available" db:"available"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	RequestID   *int64    `json:"request_id,omitempty" db:"request_id"`
	HasImage    bool      `json:"has_image" db:"has_image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ItemPatch is a partial update of an item. The owner cannot be changed.
type ItemPatch struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Available   Optional[bool]   `json:"available"`
}

// Apply merges the patch into it.
func (p ItemPatch) Apply(it *Item) {
	if v, ok := p.Name.Get(); ok {
		it.Name = v
	}
	if v, ok := p.Description.Get(); ok {
		it.Description = v
	}
	if v, ok := p.Available.Get(); ok {
		it.Available = v
	}
}

// ItemSummary is the denormalised item attached to booking responses.
type ItemSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
}

// ItemView is an item as presented to a viewer. LastBooking and NextBooking
// are only filled in when the viewer owns the item.
type ItemView struct {
	Item
	LastBooking *Booking  `json:"last_booking"`
	NextBooking *Booking  `json:"next_booking"`
	Comments    []Comment `json:"comments"`
}

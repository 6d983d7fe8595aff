package model

import "time"

// User is a member of the marketplace. Users both own items and book them.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserPatch is a partial update of a user. Absent fields keep the stored value.
type UserPatch struct {
	Name  Optional[string] `json:"name"`
	Email Optional[string] `json:"email"`
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if v, ok := p.Name.Get(); ok {
		u.Name = v
	}
	if v, ok := p.Email.Get(); ok {
		u.Email = v
	}
}

// UserSummary is the denormalised booker attached to booking responses.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

package models

import "time"

// Contact represents a single address-book entry owned by a user.
type Contact struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Birthday    Date      `json:"birthday"`
	ExtraInfo   string    `json:"extraInfo,omitempty"`
	UserID      int64     `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ContactFilter holds the optional search filters for listing contacts.
// Each filter is a case-insensitive substring match; filters are ANDed.
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// ContactUpdate carries a partial update. Nil fields are left untouched.
type ContactUpdate struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Birthday    *Date   `json:"birthday"`
	ExtraInfo   *string `json:"extraInfo"`
}

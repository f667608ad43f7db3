package models

import "time"

type Contact struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"-"`

	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Phone    string `bson:"phone" json:"phone"`
	Favorite bool   `bson:"favorite" json:"favorite"`
}

// ContactUpdate lists the fields to change on a contact; nil fields are left untouched.
type ContactUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

func (upd ContactUpdate) Apply(c *Contact) {
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Favorite != nil {
		c.Favorite = *upd.Favorite
	}
}

// ContactFilter selects a page of contacts. Page and Limit are 1-based and positive.
type ContactFilter struct {
	Favorite *bool
	Page     int
	Limit    int
}

func (f ContactFilter) Skip() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

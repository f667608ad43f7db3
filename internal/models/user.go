package models

import "time"

type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

type User struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	FirstName    string       `bson:"firstName" json:"firstName"`
	LastName     string       `bson:"lastName" json:"lastName"`
	Email        string       `bson:"email" json:"email"`
	Password     string       `bson:"password" json:"-"` // argon2id hash
	Subscription Subscription `bson:"subscription" json:"subscription"`
	AvatarURL    string       `bson:"avatarURL" json:"avatarURL"`

	// Email verification
	Verify            bool    `bson:"verify" json:"verify"`
	VerificationToken *string `bson:"verificationToken" json:"-"` // nil once verified

	// Token is the only session token accepted for this user; empty when logged out.
	Token string `bson:"token" json:"-"`
}

// PublicUser is the part of a User that is safe to return to clients.
type PublicUser struct {
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Email        string       `json:"email"`
	Subscription Subscription `json:"subscription"`
	AvatarURL    string       `json:"avatarURL"`
	Verify       bool         `json:"verify"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Subscription: u.Subscription,
		AvatarURL:    u.AvatarURL,
		Verify:       u.Verify,
	}
}

// UserUpdate lists the fields to change on a user record; nil fields are left untouched.
type UserUpdate struct {
	FirstName         *string
	LastName          *string
	Email             *string
	Subscription      *Subscription
	AvatarURL         *string
	Verify            *bool
	VerificationToken *string
	// ClearVerificationToken sets verificationToken to null and wins over VerificationToken.
	ClearVerificationToken bool
	Token                  *string
}

// Apply copies the set fields of upd onto u.
func (upd UserUpdate) Apply(u *User) {
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Subscription != nil {
		u.Subscription = *upd.Subscription
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	if upd.Verify != nil {
		u.Verify = *upd.Verify
	}
	if upd.VerificationToken != nil {
		t := *upd.VerificationToken
		u.VerificationToken = &t
	}
	if upd.ClearVerificationToken {
		u.VerificationToken = nil
	}
	if upd.Token != nil {
		u.Token = *upd.Token
	}
}

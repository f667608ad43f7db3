// Package store persists users and contacts. Every backend implements the same
// UserStore and ContactStore contracts and reports missing records as ErrNotFound.
package store

import (
	"context"
	"errors"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a write would give two users the same email.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserStore is the credential store.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateByID(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
}

// ContactStore is the contact collection. Listing returns contacts in insertion order.
type ContactStore interface {
	List(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error)
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	UpdateByID(ctx context.Context, id string, upd models.ContactUpdate) (*models.Contact, error)
	DeleteByID(ctx context.Context, id string) (*models.Contact, error)
}

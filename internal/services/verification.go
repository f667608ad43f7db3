package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/AnshRaj112/phonebook-backend/internal/store"
	"github.com/google/uuid"
)

const verificationSubject = "Verify your email"

var (
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrUserNotFound             = errors.New("user not found")
	ErrAlreadyVerified          = errors.New("verification has already been passed")
)

// VerificationService runs the email verification flow.
type VerificationService struct {
	users   store.UserStore
	mailer  Mailer
	baseURL string
}

func NewVerificationService(users store.UserStore, mailer Mailer, baseURL string) *VerificationService {
	return &VerificationService{users: users, mailer: mailer, baseURL: baseURL}
}

// NewVerificationToken returns a fresh random verification token.
func NewVerificationToken() string {
	return uuid.NewString()
}

// RequireReverification marks upd so the user becomes unverified with a new token.
// It returns the token to send.
func RequireReverification(upd *models.UserUpdate) string {
	token := NewVerificationToken()
	verified := false
	upd.Verify = &verified
	upd.VerificationToken = &token
	upd.ClearVerificationToken = false
	return token
}

// Link is the URL a user follows to confirm their address.
func (s *VerificationService) Link(token string) string {
	return fmt.Sprintf("%s/users/verify/%s", s.baseURL, token)
}

// Send emails the verification link for token to email.
func (s *VerificationService) Send(ctx context.Context, email, token string) error {
	link := html.EscapeString(s.Link(token))
	body := fmt.Sprintf(`<p>Please confirm your email address.</p><p><a target="_blank" href="%s">Click to verify email</a></p>`, link)
	return s.mailer.Send(ctx, email, verificationSubject, body)
}

// Confirm marks the owner of token as verified and consumes the token.
func (s *VerificationService) Confirm(ctx context.Context, token string) (*models.User, error) {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidVerificationToken
		}
		return nil, err
	}

	verified := true
	return s.users.UpdateByID(ctx, user.ID, models.UserUpdate{
		Verify:                 &verified,
		ClearVerificationToken: true,
	})
}

// Resend emails the stored verification token of an unverified user again.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Verify {
		return ErrAlreadyVerified
	}

	token := ""
	if user.VerificationToken != nil {
		token = *user.VerificationToken
	} else {
		// unverified without a token can only come from legacy records
		var upd models.UserUpdate
		token = RequireReverification(&upd)
		if _, err := s.users.UpdateByID(ctx, user.ID, upd); err != nil {
			return err
		}
	}
	return s.Send(ctx, user.Email, token)
}

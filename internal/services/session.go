package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/AnshRaj112/phonebook-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionDuration is how long an issued session token stays valid.
const SessionDuration = 23 * time.Hour

// ErrNotAuthorized is returned for any token that does not identify a live session.
var ErrNotAuthorized = errors.New("not authorized")

// SessionClaims is the signed payload of a session token.
type SessionClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// SessionService issues, verifies and revokes session tokens.
// A user holds at most one session: the token stored on the user record.
type SessionService struct {
	users  store.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(users store.UserStore, secret string) *SessionService {
	return &SessionService{
		users:  users,
		secret: []byte(secret),
		ttl:    SessionDuration,
		now:    time.Now,
	}
}

// Issue signs a new token for userID and stores it on the user record,
// replacing whatever session the user had before.
func (s *SessionService) Issue(ctx context.Context, userID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if _, err := s.users.UpdateByID(ctx, userID, models.UserUpdate{Token: &token}); err != nil {
		return "", err
	}
	return token, nil
}

// Verify returns the user a token belongs to. The token must carry a valid
// signature and expiry and must still be the token stored on the user.
func (s *SessionService) Verify(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrNotAuthorized
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.UserID == "" {
		return nil, ErrNotAuthorized
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if user.Token == "" || user.Token != tokenString {
		return nil, ErrNotAuthorized
	}
	return user, nil
}

// Revoke clears the stored token so no previously issued token verifies again.
func (s *SessionService) Revoke(ctx context.Context, userID string) error {
	empty := ""
	_, err := s.users.UpdateByID(ctx, userID, models.UserUpdate{Token: &empty})
	return err
}

package services

import (
	"context"
	"sync"
	"testing"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/AnshRaj112/phonebook-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	To, Subject, HTML string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, html})
	return nil
}

func createUnverified(t *testing.T, users store.UserStore, email string) (*models.User, string) {
	t.Helper()
	token := NewVerificationToken()
	u, err := users.Create(context.Background(), &models.User{
		FirstName:         "Ann",
		LastName:          "Lee",
		Email:             email,
		Password:          "hash",
		VerificationToken: &token,
	})
	require.NoError(t, err)
	return u, token
}

func TestVerification_Send(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewVerificationService(store.NewMemoryUsers(), mailer, "http://localhost:8080")

	require.NoError(t, svc.Send(context.Background(), "ann@x.com", "tok-1"))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ann@x.com", mailer.sent[0].To)
	assert.Equal(t, "Verify your email", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "http://localhost:8080/users/verify/tok-1")
}

func TestVerification_Confirm(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryUsers()
	svc := NewVerificationService(users, &recordingMailer{}, "http://localhost:8080")
	u, token := createUnverified(t, users, "ann@x.com")

	_, err := svc.Confirm(ctx, "unknown")
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)

	got, err := svc.Confirm(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.Verify)
	assert.Nil(t, got.VerificationToken)

	// the token is consumed
	_, err = svc.Confirm(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestVerification_Resend(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryUsers()
	mailer := &recordingMailer{}
	svc := NewVerificationService(users, mailer, "http://localhost:8080")
	_, token := createUnverified(t, users, "ann@x.com")

	assert.ErrorIs(t, svc.Resend(ctx, "nobody@x.com"), ErrUserNotFound)

	require.NoError(t, svc.Resend(ctx, "ann@x.com"))
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].HTML, token)

	_, err := svc.Confirm(ctx, token)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Resend(ctx, "ann@x.com"), ErrAlreadyVerified)
	assert.Len(t, mailer.sent, 1)
}

func TestVerification_ResendWithoutStoredToken(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryUsers()
	mailer := &recordingMailer{}
	svc := NewVerificationService(users, mailer, "http://localhost:8080")
	u := createUser(t, users, "ann@x.com")

	require.NoError(t, svc.Resend(ctx, "ann@x.com"))

	stored, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)
	assert.Contains(t, mailer.sent[0].HTML, *stored.VerificationToken)
}

func TestRequireReverification(t *testing.T) {
	upd := models.UserUpdate{ClearVerificationToken: true}
	token := RequireReverification(&upd)

	require.NotNil(t, upd.Verify)
	assert.False(t, *upd.Verify)
	require.NotNil(t, upd.VerificationToken)
	assert.Equal(t, token, *upd.VerificationToken)
	assert.False(t, upd.ClearVerificationToken)
	assert.NotEqual(t, token, RequireReverification(&models.UserUpdate{}))
}

func TestGravatarURL(t *testing.T) {
	assert.Equal(t, "https://s.gravatar.com/avatar/0530e08f7da74c378704ddaaf7adca72", GravatarURL("ann@x.com"))
	assert.Equal(t, GravatarURL("ann@x.com"), GravatarURL("  Ann@X.com "))
	assert.NotEqual(t, GravatarURL("ann@x.com"), GravatarURL("bob@x.com"))
}

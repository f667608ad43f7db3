package store

import (
	"context"
	"testing"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsers_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUsers()
	vt := "verify-me"

	created, err := s.Create(ctx, &models.User{Email: "ann@example.com", VerificationToken: &vt})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", byID.Email)

	byEmail, err := s.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byToken, err := s.FindByVerificationToken(ctx, vt)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byToken.ID)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUsers()

	_, err := s.Create(ctx, &models.User{Email: "ann@example.com"})
	require.NoError(t, err)
	bob, err := s.Create(ctx, &models.User{Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, &models.User{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	taken := "ann@example.com"
	_, err = s.UpdateByID(ctx, bob.ID, models.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryUsers_UpdateClearsVerificationToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUsers()
	vt := "verify-me"
	u, err := s.Create(ctx, &models.User{Email: "ann@example.com", VerificationToken: &vt})
	require.NoError(t, err)

	verified := true
	updated, err := s.UpdateByID(ctx, u.ID, models.UserUpdate{Verify: &verified, ClearVerificationToken: true})
	require.NoError(t, err)
	assert.True(t, updated.Verify)
	assert.Nil(t, updated.VerificationToken)

	_, err = s.FindByVerificationToken(ctx, vt)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateByID(ctx, "missing", models.UserUpdate{Verify: &verified})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryContacts_ListPaginatesInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryContacts()
	names := []string{"one", "two", "three", "four", "five"}
	for i, n := range names {
		_, err := s.Create(ctx, &models.Contact{Name: n, Phone: "1", Favorite: i%2 == 0})
		require.NoError(t, err)
	}

	page, err := s.List(ctx, models.ContactFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Name)
	assert.Equal(t, "four", page[1].Name)

	fav := true
	favs, err := s.List(ctx, models.ContactFilter{Favorite: &fav, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, favs, 3)
	assert.Equal(t, []string{"one", "three", "five"}, []string{favs[0].Name, favs[1].Name, favs[2].Name})

	empty, err := s.List(ctx, models.ContactFilter{Page: 9, Limit: 20})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryContacts_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryContacts()
	c, err := s.Create(ctx, &models.Contact{Name: "Ann", Phone: "123"})
	require.NoError(t, err)

	fav := true
	updated, err := s.UpdateByID(ctx, c.ID, models.ContactUpdate{Favorite: &fav})
	require.NoError(t, err)
	assert.True(t, updated.Favorite)
	assert.Equal(t, "Ann", updated.Name)

	_, err = s.DeleteByID(ctx, c.ID)
	require.NoError(t, err)
	_, err = s.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.DeleteByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.List(ctx, models.ContactFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, all)
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	data   map[string][]byte
	setErr error
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type countingUsers struct {
	*MemoryUsers
	findByID int
}

func (s *countingUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.findByID++
	return s.MemoryUsers.FindByID(ctx, id)
}

func TestCachedUsers_ReadThroughKeepsSecretFields(t *testing.T) {
	ctx := context.Background()
	backing := &countingUsers{MemoryUsers: NewMemoryUsers()}
	cache := newMapCache()
	s := NewCachedUsers(backing, cache)

	u, err := s.Create(ctx, &models.User{Email: "ann@example.com", Password: "hash", Token: "tok"})
	require.NoError(t, err)

	first, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	second, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.findByID)
	assert.Equal(t, "tok", second.Token)
	assert.Equal(t, "hash", second.Password)
	assert.Equal(t, first.Email, second.Email)
}

func TestCachedUsers_UpdateEvicts(t *testing.T) {
	ctx := context.Background()
	backing := &countingUsers{MemoryUsers: NewMemoryUsers()}
	s := NewCachedUsers(backing, newMapCache())

	u, err := s.Create(ctx, &models.User{Email: "ann@example.com", Token: "tok"})
	require.NoError(t, err)
	_, err = s.FindByID(ctx, u.ID)
	require.NoError(t, err)

	empty := ""
	_, err = s.UpdateByID(ctx, u.ID, models.UserUpdate{Token: &empty})
	require.NoError(t, err)

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Token)
	assert.Equal(t, 2, backing.findByID)
}

func TestCachedUsers_EvictionFailureIsReported(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	s := NewCachedUsers(NewMemoryUsers(), cache)

	u, err := s.Create(ctx, &models.User{Email: "ann@example.com"})
	require.NoError(t, err)
	cache.setErr = errors.New("redis down")

	empty := ""
	_, err = s.UpdateByID(ctx, u.ID, models.UserUpdate{Token: &empty})
	assert.Error(t, err)
}

// interleavedUsers runs afterRead once, between the backing read and the
// cache fill of the first FindByID.
type interleavedUsers struct {
	*MemoryUsers
	afterRead func()
}

func (s *interleavedUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.MemoryUsers.FindByID(ctx, id)
	if s.afterRead != nil {
		hook := s.afterRead
		s.afterRead = nil
		hook()
	}
	return u, err
}

func TestCachedUsers_WriteDuringFillIsNotMasked(t *testing.T) {
	ctx := context.Background()
	backing := &interleavedUsers{MemoryUsers: NewMemoryUsers()}
	s := NewCachedUsers(backing, newMapCache())

	u, err := s.Create(ctx, &models.User{Email: "ann@example.com", Token: "T1"})
	require.NoError(t, err)

	empty := ""
	backing.afterRead = func() {
		_, err := s.UpdateByID(ctx, u.ID, models.UserUpdate{Token: &empty})
		require.NoError(t, err)
	}

	stale, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "T1", stale.Token)

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Token)
}

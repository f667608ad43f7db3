package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// UserCacheTTL bounds how long a cached user record is served.
const UserCacheTTL = 15 * time.Minute

// Cache is a byte-oriented key/value cache with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// userGenerationTTL outlives any entry written under a generation, so an expired
// generation key can never expose an old entry.
const userGenerationTTL = 24 * time.Hour

// CachedUsers is a read-through cache in front of a UserStore for lookups by id,
// which the session verifier performs on every authenticated request.
//
// Entries are keyed by a per-user generation. Every write moves the user to a new
// generation, so a fill that raced with the write lands under a key no reader
// looks up again and a revoked token is never served from cache.
type CachedUsers struct {
	UserStore
	cache Cache
	ttl   time.Duration
}

func NewCachedUsers(next UserStore, cache Cache) *CachedUsers {
	return &CachedUsers{UserStore: next, cache: cache, ttl: UserCacheTTL}
}

func userGenerationKey(id string) string {
	return fmt.Sprintf("user:%s:gen", id)
}

func userCacheKey(id, gen string) string {
	return fmt.Sprintf("user:%s:%s", id, gen)
}

func (s *CachedUsers) generation(ctx context.Context, id string) (string, error) {
	gen, ok, err := s.cache.Get(ctx, userGenerationKey(id))
	if err != nil {
		return "", err
	}
	if !ok {
		return "0", nil
	}
	return string(gen), nil
}

func (s *CachedUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	gen, err := s.generation(ctx, id)
	if err != nil {
		log.Printf("user cache generation %s: %v", id, err)
		return s.UserStore.FindByID(ctx, id)
	}
	key := userCacheKey(id, gen)

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("user cache get %s: %v", key, err)
	}
	if ok {
		var u models.User
		if err := bson.Unmarshal(data, &u); err == nil {
			return &u, nil
		}
	}

	u, err := s.UserStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := bson.Marshal(u); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			log.Printf("user cache set %s: %v", key, err)
		}
	}
	return u, nil
}

func (s *CachedUsers) UpdateByID(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	u, err := s.UserStore.UpdateByID(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	old, err := s.generation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("evict cached user %s: %w", id, err)
	}
	if err := s.cache.Set(ctx, userGenerationKey(id), []byte(uuid.NewString()), userGenerationTTL); err != nil {
		return nil, fmt.Errorf("evict cached user %s: %w", id, err)
	}
	if err := s.cache.Delete(ctx, userCacheKey(id, old)); err != nil {
		log.Printf("user cache delete %s: %v", userCacheKey(id, old), err)
	}
	return u, nil
}

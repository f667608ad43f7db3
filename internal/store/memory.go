package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryUsers keeps users in process memory. Used for local development and tests.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]models.User)}
}

func (s *MemoryUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(func(u *models.User) bool { return u.Email == email })
}

func (s *MemoryUsers) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(func(u *models.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (s *MemoryUsers) findOne(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(&u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTakenLocked(user.Email, "") {
		return nil, ErrDuplicateEmail
	}

	u := *user
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemoryUsers) UpdateByID(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Email != nil && s.emailTakenLocked(*upd.Email, id) {
		return nil, ErrDuplicateEmail
	}

	upd.Apply(&u)
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return &u, nil
}

func (s *MemoryUsers) emailTakenLocked(email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// MemoryContacts keeps contacts in process memory, preserving insertion order.
type MemoryContacts struct {
	mu       sync.RWMutex
	order    []string
	contacts map[string]models.Contact
}

func NewMemoryContacts() *MemoryContacts {
	return &MemoryContacts{contacts: make(map[string]models.Contact)}
}

func (s *MemoryContacts) List(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Contact{}
	skip := filter.Skip()
	for _, id := range s.order {
		c := s.contacts[id]
		if filter.Favorite != nil && c.Favorite != *filter.Favorite {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryContacts) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryContacts) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *contact
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.contacts[c.ID] = c
	s.order = append(s.order, c.ID)
	return &c, nil
}

func (s *MemoryContacts) UpdateByID(ctx context.Context, id string, upd models.ContactUpdate) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	upd.Apply(&c)
	c.UpdatedAt = time.Now().UTC()
	s.contacts[id] = c
	return &c, nil
}

func (s *MemoryContacts) DeleteByID(ctx context.Context, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.contacts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &c, nil
}

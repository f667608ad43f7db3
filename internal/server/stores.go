package server

import (
	"context"
	"fmt"
	"log"

	"github.com/AnshRaj112/phonebook-backend/internal/config"
	"github.com/AnshRaj112/phonebook-backend/internal/database"
	"github.com/AnshRaj112/phonebook-backend/internal/services"
	"github.com/AnshRaj112/phonebook-backend/internal/store"
)

// Stores are the persistence backends selected by STORE_DRIVER.
type Stores struct {
	Users    store.UserStore
	Contacts store.ContactStore
	closers  []func() error
}

// Close releases every connection opened by OpenStores.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Printf("⚠️  close: %v", err)
		}
	}
}

// OpenStores connects to the configured store, makes sure its indexes or tables
// exist and, when REDIS_URI is set, puts the user cache in front of it.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{}

	switch cfg.StoreDriver {
	case config.StoreMongo:
		log.Printf("Connecting to MongoDB: %s", database.MaskURI(cfg.MongoURI))
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		s.closers = append(s.closers, func() error { return database.DisconnectMongo(client) })

		if err := store.EnsureMongoIndexes(ctx, db); err != nil {
			s.Close()
			return nil, fmt.Errorf("ensure MongoDB indexes: %w", err)
		}
		log.Println("✅ MongoDB indexes ensured")
		s.Users = store.NewMongoUsers(db)
		s.Contacts = store.NewMongoContacts(db)

	case config.StorePostgres:
		log.Printf("Connecting to PostgreSQL: %s", database.MaskURI(cfg.PostgresURI))
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
		if err != nil {
			return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		s.closers = append(s.closers, db.Close)

		if err := database.InitPostgresTables(ctx, db); err != nil {
			s.Close()
			return nil, fmt.Errorf("initialize PostgreSQL tables: %w", err)
		}
		s.Users = store.NewPostgresUsers(db)
		s.Contacts = store.NewPostgresContacts(db)

	case config.StoreMemory:
		log.Println("⚠️  Using in-memory store; data is lost on restart")
		s.Users = store.NewMemoryUsers()
		s.Contacts = store.NewMemoryContacts()

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.RedisURI != "" {
		client, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect to Redis: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		s.Users = store.NewCachedUsers(s.Users, services.NewRedisCache(client))
		log.Println("✅ User cache enabled")
	}

	return s, nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/AnshRaj112/phonebook-backend/internal/config"
	"github.com/AnshRaj112/phonebook-backend/internal/handlers"
	"github.com/AnshRaj112/phonebook-backend/internal/middleware"
	"github.com/AnshRaj112/phonebook-backend/internal/routes"
	"github.com/AnshRaj112/phonebook-backend/internal/services"
	"github.com/AnshRaj112/phonebook-backend/internal/validation"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and the connections it owns.
type Server struct {
	httpServer *http.Server
	stores     *Stores
}

// New wires stores, services and handlers from cfg.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	validator, err := validation.New()
	if err != nil {
		return nil, err
	}

	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	avatarStore, err := newAvatarStore(ctx, cfg)
	if err != nil {
		stores.Close()
		return nil, err
	}

	var mailer services.Mailer = services.LogMailer{}
	if cfg.MailEnabled() {
		mailer = services.NewSMTPMailer(cfg)
		log.Printf("✅ SMTP mail via %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Println("⚠️  SMTP_HOST not set. Verification emails will be logged, not sent")
	}

	sessions := services.NewSessionService(stores.Users, cfg.JWTSecret)
	verification := services.NewVerificationService(stores.Users, mailer, cfg.Host)
	avatars := services.NewAvatarService(cfg.TmpDir, avatarStore)

	router := NewRouter(cfg, routes.Deps{
		Users:     handlers.NewUserHandler(stores.Users, sessions, verification, avatars, validator, cfg.IsProduction()),
		Contacts:  handlers.NewContactHandler(stores.Contacts, validator),
		Sessions:  sessions,
		PublicDir: cfg.PublicDir,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		stores: stores,
	}, nil
}

// NewRouter builds the chi router with the middleware stack and all routes.
func NewRouter(cfg *config.Config, deps routes.Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Logger,
		chimiddleware.Recoverer,
	)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(middleware.HostnameOf(cfg.Host)) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, HSTS, host check)")
	} else {
		r.Use(middleware.SecurityHeaders)
	}

	routes.SetupRoutes(r, deps)
	return r
}

func newAvatarStore(ctx context.Context, cfg *config.Config) (services.AvatarStore, error) {
	switch cfg.AvatarBackend {
	case config.AvatarCloudinary:
		s, err := services.NewCloudinaryAvatarStore(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		log.Println("✅ Cloudinary avatar storage initialized")
		return s, nil
	case config.AvatarMinio:
		s, err := services.NewMinioAvatarStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initialize MinIO: %w", err)
		}
		log.Printf("✅ MinIO avatar storage initialized (bucket %s)", cfg.MinioBucket)
		return s, nil
	default:
		return services.NewLocalAvatarStore(filepath.Join(cfg.PublicDir, "avatars")), nil
	}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.stores.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Contacts backend running on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

package routes

import (
	"net/http"
	"path/filepath"

	"github.com/AnshRaj112/phonebook-backend/internal/handlers"
	"github.com/AnshRaj112/phonebook-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Deps are the handlers and collaborators the routes are bound to.
type Deps struct {
	Users     *handlers.UserHandler
	Contacts  *handlers.ContactHandler
	Sessions  middleware.SessionVerifier
	PublicDir string
}

func SetupRoutes(r chi.Router, d Deps) {
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health)

	// Uploaded avatars
	avatarDir := http.Dir(filepath.Join(d.PublicDir, "avatars"))
	r.Handle("/avatars/*", http.StripPrefix("/avatars/", http.FileServer(avatarDir)))

	authenticate := middleware.Authenticate(d.Sessions)

	r.Route("/users", func(r chi.Router) {
		// Public auth routes
		r.Post("/signup", handlers.Wrap(d.Users.Signup))
		r.Post("/login", handlers.Wrap(d.Users.Login))
		r.Get("/verify/{verificationToken}", handlers.Wrap(d.Users.Verify))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/logout", handlers.Wrap(d.Users.Logout))
			r.Get("/current", handlers.Wrap(d.Users.Current))
			r.Patch("/", handlers.Wrap(d.Users.UpdateSubscription))
			r.Put("/info", handlers.Wrap(d.Users.UpdateProfile))
			r.Post("/verify", handlers.Wrap(d.Users.ResendVerification))
		})
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", handlers.Wrap(d.Contacts.List))
		r.Post("/", handlers.Wrap(d.Contacts.Create))
		r.Get("/{id}", handlers.Wrap(d.Contacts.Get))
		r.Put("/{id}", handlers.Wrap(d.Contacts.Update))
		r.Delete("/{id}", handlers.Wrap(d.Contacts.Delete))
		r.Patch("/{id}/favorite", handlers.Wrap(d.Contacts.UpdateFavorite))
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/AnshRaj112/phonebook-backend/internal/store"
	"github.com/AnshRaj112/phonebook-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

const (
	defaultContactsPage  = 1
	defaultContactsLimit = 20

	msgContactNotFound = "Contact not found"
	msgContactDeleted  = "Contact deleted"
)

// ContactRequest represents the create/update contact request body
type ContactRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone string  `json:"phone"`
}

// FavoriteRequest represents the favorite toggle request body
type FavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// ContactHandler serves the /contacts routes.
type ContactHandler struct {
	contacts  store.ContactStore
	validator *validation.Validator
}

func NewContactHandler(contacts store.ContactStore, validator *validation.Validator) *ContactHandler {
	return &ContactHandler{contacts: contacts, validator: validator}
}

// List handles GET /contacts?page=&limit=&favorite=
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	filter := models.ContactFilter{
		Page:  positiveInt(q.Get("page"), defaultContactsPage),
		Limit: positiveInt(q.Get("limit"), defaultContactsLimit),
	}
	if fav, err := strconv.ParseBool(q.Get("favorite")); err == nil {
		filter.Favorite = &fav
	}

	contacts, err := h.contacts.List(r.Context(), filter)
	if err != nil {
		return err
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
	return nil
}

// Get handles GET /contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) error {
	contact, err := h.contacts.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return contactError(err)
	}
	writeJSON(w, http.StatusOK, contact)
	return nil
}

// Create handles POST /contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req ContactRequest
	if err := decodeValid(w, r, h.validator, validation.Contact, &req); err != nil {
		return err
	}

	contact := &models.Contact{Name: req.Name, Phone: req.Phone}
	if req.Email != nil {
		contact.Email = *req.Email
	}

	created, err := h.contacts.Create(r.Context(), contact)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, created)
	return nil
}

// Update handles PUT /contacts/{id}. An omitted email keeps the stored one.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) error {
	var req ContactRequest
	if err := decodeValid(w, r, h.validator, validation.Contact, &req); err != nil {
		return err
	}

	updated, err := h.contacts.UpdateByID(r.Context(), chi.URLParam(r, "id"), models.ContactUpdate{
		Name:  &req.Name,
		Email: req.Email,
		Phone: &req.Phone,
	})
	if err != nil {
		return contactError(err)
	}
	writeJSON(w, http.StatusOK, updated)
	return nil
}

// UpdateFavorite handles PATCH /contacts/{id}/favorite
func (h *ContactHandler) UpdateFavorite(w http.ResponseWriter, r *http.Request) error {
	var req FavoriteRequest
	if err := decodeValid(w, r, h.validator, validation.Favorite, &req); err != nil {
		return err
	}

	updated, err := h.contacts.UpdateByID(r.Context(), chi.URLParam(r, "id"), models.ContactUpdate{
		Favorite: &req.Favorite,
	})
	if err != nil {
		return contactError(err)
	}
	writeJSON(w, http.StatusOK, updated)
	return nil
}

// Delete handles DELETE /contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.contacts.DeleteByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		return contactError(err)
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgContactDeleted})
	return nil
}

func contactError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return httpError(http.StatusNotFound, msgContactNotFound)
	}
	return err
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

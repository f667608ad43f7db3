package handlers

import (
	"context"
	"errors"
	"log"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/AnshRaj112/phonebook-backend/internal/middleware"
	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/AnshRaj112/phonebook-backend/internal/services"
	"github.com/AnshRaj112/phonebook-backend/internal/store"
	"github.com/AnshRaj112/phonebook-backend/internal/validation"
	"github.com/AnshRaj112/phonebook-backend/pkg/utils"
	"github.com/go-chi/chi/v5"
)

const (
	msgEmailInUse        = "Email in use"
	msgWrongCredentials  = "Email or password is wrong"
	msgNotAuthorized     = "Not authorized"
	msgUserNotFound      = "User not found"
	msgAlreadyVerified   = "Verification has already been passed"
	msgVerificationSent  = "Verification email sent"
	msgVerificationDone  = "Verification successful"
	msgInvalidVerifToken = "Invalid verification token"
	msgAvatarTooLarge    = "Avatar must not exceed 5 MB"
)

// SignupRequest represents the signup request body
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest represents the profile update fields
type ProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// SubscriptionRequest represents the subscription update request body
type SubscriptionRequest struct {
	Subscription *models.Subscription `json:"subscription"`
}

// EmailRequest represents the resend verification request body
type EmailRequest struct {
	Email string `json:"email"`
}

// UserResponse wraps the public view of a user
type UserResponse struct {
	User models.PublicUser `json:"user"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// SubscriptionResponse is returned after a subscription change
type SubscriptionResponse struct {
	User struct {
		Subscription models.Subscription `json:"subscription"`
	} `json:"user"`
}

// UserHandler serves the /users routes.
type UserHandler struct {
	users        store.UserStore
	sessions     *services.SessionService
	verification *services.VerificationService
	avatars      *services.AvatarService
	validator    *validation.Validator
	secureCookie bool
}

func NewUserHandler(
	users store.UserStore,
	sessions *services.SessionService,
	verification *services.VerificationService,
	avatars *services.AvatarService,
	validator *validation.Validator,
	secureCookie bool,
) *UserHandler {
	return &UserHandler{
		users:        users,
		sessions:     sessions,
		verification: verification,
		avatars:      avatars,
		validator:    validator,
		secureCookie: secureCookie,
	}
}

// Signup handles POST /users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) error {
	var req SignupRequest
	if err := decodeValid(w, r, h.validator, validation.Signup, &req); err != nil {
		return err
	}
	email := normalizeEmail(req.Email)
	ctx := r.Context()

	if _, err := h.users.FindByEmail(ctx, email); err == nil {
		return httpError(http.StatusConflict, msgEmailInUse)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	token := services.NewVerificationToken()
	user, err := h.users.Create(ctx, &models.User{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             email,
		Password:          hash,
		Subscription:      models.SubscriptionStarter,
		AvatarURL:         services.GravatarURL(email),
		VerificationToken: &token,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return httpError(http.StatusConflict, msgEmailInUse)
		}
		return err
	}

	if err := h.verification.Send(ctx, user.Email, token); err != nil {
		return err
	}

	log.Printf("✅ User signed up: %s", user.ID)
	writeJSON(w, http.StatusCreated, UserResponse{User: user.Public()})
	return nil
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := decodeValid(w, r, h.validator, validation.Login, &req); err != nil {
		return err
	}
	ctx := r.Context()

	user, err := h.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpError(http.StatusUnauthorized, msgWrongCredentials)
		}
		return err
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil {
		log.Printf("⚠️  Unreadable password hash for user %s: %v", user.ID, err)
	}
	if !ok {
		return httpError(http.StatusUnauthorized, msgWrongCredentials)
	}

	token, err := h.sessions.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	setSessionCookie(w, token, h.secureCookie)
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user.Public()})
	return nil
}

// Logout handles GET /users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	if err := h.sessions.Revoke(r.Context(), user.ID); err != nil {
		return err
	}

	clearSessionCookie(w, h.secureCookie)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Current handles GET /users/current
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user.Public()})
	return nil
}

// UpdateSubscription handles PATCH /users
func (h *UserHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var req SubscriptionRequest
	if err := decodeValid(w, r, h.validator, validation.Subscription, &req); err != nil {
		return err
	}

	if req.Subscription != nil {
		user, err = h.users.UpdateByID(r.Context(), user.ID, models.UserUpdate{Subscription: req.Subscription})
		if err != nil {
			return err
		}
	}

	var resp SubscriptionResponse
	resp.User.Subscription = user.Subscription
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// UpdateProfile handles PUT /users/info. The body is multipart/form-data with an
// optional "avatar" file, or JSON without one.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	ctx := r.Context()

	var (
		req    ProfileRequest
		avatar *multipart.FileHeader
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req, avatar, err = h.readProfileForm(w, r)
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
		if err != nil {
			return err
		}
	} else if err := decodeValid(w, r, h.validator, validation.Profile, &req); err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	if email != user.Email {
		existing, err := h.users.FindByEmail(ctx, email)
		if err == nil && existing.ID != user.ID {
			return httpError(http.StatusConflict, msgEmailInUse)
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	upd := models.UserUpdate{
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		Email:     &email,
	}
	if avatar != nil {
		avatarURL, err := h.publishAvatar(ctx, avatar)
		if err != nil {
			return err
		}
		upd.AvatarURL = &avatarURL
	}
	token := services.RequireReverification(&upd)

	updated, err := h.users.UpdateByID(ctx, user.ID, upd)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return httpError(http.StatusConflict, msgEmailInUse)
		}
		return err
	}

	if err := h.verification.Send(ctx, updated.Email, token); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, UserResponse{User: updated.Public()})
	return nil
}

// readProfileForm validates the multipart profile fields. The avatar file, if
// any, is returned unopened.
func (h *UserHandler) readProfileForm(w http.ResponseWriter, r *http.Request) (ProfileRequest, *multipart.FileHeader, error) {
	var req ProfileRequest

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxAvatarBytes+maxJSONBody)
	if err := r.ParseMultipartForm(services.MaxAvatarBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, nil, httpError(http.StatusRequestEntityTooLarge, msgAvatarTooLarge)
		}
		return req, nil, httpError(http.StatusBadRequest, "Invalid form data")
	}

	fields := map[string]any{}
	for _, key := range []string{"firstName", "lastName", "email"} {
		if values, ok := r.MultipartForm.Value[key]; ok && len(values) > 0 {
			fields[key] = values[0]
		}
	}
	if err := h.validator.ValidateValue(validation.Profile, fields); err != nil {
		return req, nil, err
	}
	req.FirstName, _ = fields["firstName"].(string)
	req.LastName, _ = fields["lastName"].(string)
	req.Email, _ = fields["email"].(string)

	files := r.MultipartForm.File["avatar"]
	if len(files) == 0 {
		return req, nil, nil
	}
	if files[0].Size > services.MaxAvatarBytes {
		return req, nil, httpError(http.StatusRequestEntityTooLarge, msgAvatarTooLarge)
	}
	return req, files[0], nil
}

// publishAvatar resizes the uploaded avatar and hands it to the avatar store.
func (h *UserHandler) publishAvatar(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", httpError(http.StatusBadRequest, "Invalid avatar upload")
	}
	defer file.Close()

	avatarURL, err := h.avatars.Process(ctx, file, header.Filename)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImage) {
			return "", httpError(http.StatusBadRequest, "Avatar must be a jpg, png, gif, bmp or tiff image")
		}
		return "", err
	}
	return avatarURL, nil
}

// Verify handles GET /users/verify/{verificationToken}
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) error {
	token := chi.URLParam(r, "verificationToken")
	if token == "" {
		return httpError(http.StatusBadRequest, msgInvalidVerifToken)
	}

	if _, err := h.verification.Confirm(r.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidVerificationToken) {
			return httpError(http.StatusBadRequest, msgInvalidVerifToken)
		}
		return err
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgVerificationDone})
	return nil
}

// ResendVerification handles POST /users/verify
func (h *UserHandler) ResendVerification(w http.ResponseWriter, r *http.Request) error {
	var req EmailRequest
	if err := decodeValid(w, r, h.validator, validation.Email, &req); err != nil {
		return err
	}

	err := h.verification.Resend(r.Context(), normalizeEmail(req.Email))
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return httpError(http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, services.ErrAlreadyVerified):
		return httpError(http.StatusBadRequest, msgAlreadyVerified)
	case err != nil:
		return err
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgVerificationSent})
	return nil
}

func currentUser(r *http.Request) (*models.User, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, httpError(http.StatusUnauthorized, msgNotAuthorized)
	}
	return user, nil
}

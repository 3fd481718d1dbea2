// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/mailer"
	"github.com/vericapture/vericapture/internal/metrics"
	"github.com/vericapture/vericapture/internal/models"
)

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	UserName  string `json:"userName" validate:"max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the mutable profile fields. Empty fields
// are left unchanged.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	UserName  string `json:"userName" validate:"max=30"`
}

// isMultipart reports whether the request carries a multipart form.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// Register creates a new account. Accepts JSON or a multipart form with
// an optional thumbnail upload. On success it mints a session token, sets
// the auth cookie, and queues the welcome email.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	var thumbnail *uploadedAsset

	if isMultipart(r) {
		if !h.parseMultipart(w, r) {
			return
		}
		req = RegisterRequest{
			FirstName: r.FormValue("firstName"),
			LastName:  r.FormValue("lastName"),
			UserName:  r.FormValue("userName"),
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, MsgRegisterFieldsRequired, nil)
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}

	if isMultipart(r) {
		thumbnail, err = h.uploadFormFile(r, "thumbnail")
		if err != nil {
			respondUploadError(w, err)
			return
		}
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if thumbnail != nil {
		user.Thumbnail = thumbnail.URL
		user.CloudinaryID = thumbnail.PublicID
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		// A duplicate account must not strand the freshly uploaded avatar.
		if thumbnail != nil {
			h.destroyAsset(r.Context(), thumbnail.PublicID, thumbnail.MediaType)
		}
		status, msg := storeErrorStatus(err, MsgUserNotFound)
		respondError(w, status, msg, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	http.SetCookie(w, auth.NewSessionCookie(token, h.jwtManager.TTL(), h.config.Server.IsProduction()))

	// Fire-and-forget: registration never blocks on email delivery
	h.mailer.Enqueue(mailer.WelcomeMessage(user.FirstName, user.Email))
	metrics.UsersRegistered.Inc()

	logging.Info().Str("user_id", user.ID).Msg("user registered")
	respondSuccess(w, http.StatusCreated, MsgRegistrationSuccessful, user.Public())
}

// Login authenticates by email and password. Unknown email and wrong
// password return the same message so accounts cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusUnauthorized, MsgInvalidCredentials, nil)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, MsgInvalidCredentials, nil)
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	http.SetCookie(w, auth.NewSessionCookie(token, h.jwtManager.TTL(), h.config.Server.IsProduction()))

	respondSuccess(w, http.StatusOK, MsgLoginSuccessful, user.Public())
}

// Logout clears the auth cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ExpiredSessionCookie(h.config.Server.IsProduction()))
	respondSuccess(w, http.StatusOK, MsgLogoutSuccessful, nil)
}

// CurrentUser returns the authenticated user's profile.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	user, err := h.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgUserNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", user.Public())
}

// GetUserByID returns a public profile by user ID.
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		status, msg := storeErrorStatus(err, MsgUserNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", user.Public())
}

// UpdateProfile applies a partial profile update. Accepts JSON or a
// multipart form; replacing the thumbnail destroys the previous asset.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	user, err := h.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgUserNotFound)
		respondError(w, status, msg, err)
		return
	}

	var req UpdateProfileRequest
	var thumbnail *uploadedAsset

	if isMultipart(r) {
		if !h.parseMultipart(w, r) {
			return
		}
		req = UpdateProfileRequest{
			FirstName: r.FormValue("firstName"),
			LastName:  r.FormValue("lastName"),
			UserName:  r.FormValue("userName"),
		}
		thumbnail, err = h.uploadFormFile(r, "thumbnail")
		if err != nil {
			respondUploadError(w, err)
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	oldAssetID := ""
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.UserName != "" {
		user.UserName = req.UserName
	}
	if thumbnail != nil {
		oldAssetID = user.CloudinaryID
		user.Thumbnail = thumbnail.URL
		user.CloudinaryID = thumbnail.PublicID
	}
	user.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		// Taken usernames must not strand the freshly uploaded avatar.
		if thumbnail != nil {
			h.destroyAsset(r.Context(), thumbnail.PublicID, thumbnail.MediaType)
		}
		status, msg := storeErrorStatus(err, MsgUserNotFound)
		respondError(w, status, msg, err)
		return
	}

	if oldAssetID != "" {
		h.destroyAsset(r.Context(), oldAssetID, models.MediaTypeImage)
	}

	respondSuccess(w, http.StatusOK, MsgProfileUpdated, user.Public())
}

// DeleteAccount deletes the authenticated user with full cascade:
// authored posts (including media assets), comments, and replies go
// with the account. Likes by the user on surviving content remain.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	user, posts, err := h.store.DeleteUserCascade(r.Context(), claims.UserID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgUserNotFound)
		respondError(w, status, msg, err)
		return
	}

	// Media host cleanup is best effort; the account is already gone
	if user.CloudinaryID != "" {
		h.destroyAsset(r.Context(), user.CloudinaryID, models.MediaTypeImage)
	}
	for _, post := range posts {
		if post.CloudinaryID != "" {
			h.destroyAsset(r.Context(), post.CloudinaryID, post.MediaType)
		}
	}

	http.SetCookie(w, auth.ExpiredSessionCookie(h.config.Server.IsProduction()))
	logging.Info().Str("user_id", user.ID).Int("posts_deleted", len(posts)).Msg("account deleted")
	respondSuccess(w, http.StatusOK, MsgAccountDeleted, nil)
}

// SearchUsers performs a paginated prefix search on first names.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, MsgSearchNameRequired, nil)
		return
	}

	page, limit := pageParams(r)
	results, total, err := h.store.SearchUsersByFirstName(r.Context(), name, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	if total == 0 {
		respondError(w, http.StatusNotFound, MsgNoUsersFound, nil)
		return
	}
	if len(results) == 0 {
		respondError(w, http.StatusNotFound, MsgNoMorePages, nil)
		return
	}

	respondSuccess(w, http.StatusOK, "", models.UserSearchPage{
		Page:       page,
		Limit:      limit,
		TotalUsers: total,
		TotalPages: totalPages(total, limit),
		Data:       results,
	})
}

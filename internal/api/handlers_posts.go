// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/metrics"
	"github.com/vericapture/vericapture/internal/models"
	"github.com/vericapture/vericapture/internal/validation"
)

// CreatePostRequest carries the non-file fields of a post upload.
type CreatePostRequest struct {
	Caption   string  `json:"caption" validate:"max=2200"`
	Category  string  `json:"category" validate:"required,category"`
	Latitude  float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude float64 `json:"longitude" validate:"omitempty,longitude"`
	Address   string  `json:"address" validate:"max=255"`
}

// UpdatePostRequest carries the mutable post fields. Empty fields are
// left unchanged.
type UpdatePostRequest struct {
	Caption  string `json:"caption" validate:"max=2200"`
	Category string `json:"category" validate:"omitempty,category"`
}

// parseFloatField parses an optional float form value, returning 0 for
// empty or malformed input.
func parseFloatField(r *http.Request, field string) float64 {
	value := strings.TrimSpace(r.FormValue(field))
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// CreatePost uploads media to the media host and stores the post. The
// created post is broadcast to live feed clients.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	if !h.parseMultipart(w, r) {
		return
	}
	req := CreatePostRequest{
		Caption:   r.FormValue("caption"),
		Category:  strings.ToLower(r.FormValue("category")),
		Latitude:  parseFloatField(r, "latitude"),
		Longitude: parseFloatField(r, "longitude"),
		Address:   r.FormValue("address"),
	}
	if !validateRequest(w, &req) {
		return
	}

	asset, err := h.uploadFormFile(r, "media")
	if err != nil {
		respondUploadError(w, err)
		return
	}
	if asset == nil {
		respondError(w, http.StatusBadRequest, MsgMediaRequired, nil)
		return
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:           uuid.NewString(),
		UserID:       claims.UserID,
		Caption:      req.Caption,
		MediaURL:     asset.URL,
		MediaType:    asset.MediaType,
		CloudinaryID: asset.PublicID,
		Category:     req.Category,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.store.CreatePost(r.Context(), post); err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}

	h.wsHub.BroadcastPost(post)
	metrics.PostsCreated.WithLabelValues(post.Category).Inc()

	logging.Info().Str("post_id", post.ID).Str("category", post.Category).Msg("post created")
	respondSuccess(w, http.StatusCreated, "Post created successfully", post)
}

// attachAuthors decorates posts with their author's display info.
// Posts whose author account has since been deleted keep a nil author.
func (h *Handler) attachAuthors(r *http.Request, posts []*models.Post) {
	cache := make(map[string]*models.PostAuthor, len(posts))
	for _, p := range posts {
		author, seen := cache[p.UserID]
		if !seen {
			u, err := h.store.GetUser(r.Context(), p.UserID)
			if err == nil {
				author = &models.PostAuthor{
					ID:        u.ID,
					FirstName: u.FirstName,
					LastName:  u.LastName,
					UserName:  u.UserName,
					Thumbnail: u.Thumbnail,
				}
			}
			cache[p.UserID] = author
		}
		p.Author = author
	}
}

// ListPosts returns the paginated feed, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	posts, total, err := h.store.ListPosts(r.Context(), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	h.attachAuthors(r, posts)
	respondSuccess(w, http.StatusOK, "", models.Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
		Data:       posts,
	})
}

// GetPost returns a single post by ID.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}
	h.attachAuthors(r, []*models.Post{post})
	respondSuccess(w, http.StatusOK, "", post)
}

// ListPostsByCategory returns the feed filtered to one category.
func (h *Handler) ListPostsByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(chi.URLParam(r, "category"))
	if !validation.IsValidCategory(category) {
		respondError(w, http.StatusBadRequest, "Category must be one of: "+strings.Join(validation.Categories, ", "), nil)
		return
	}

	page, limit := pageParams(r)
	posts, total, err := h.store.ListPostsByCategory(r.Context(), category, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	h.attachAuthors(r, posts)
	respondSuccess(w, http.StatusOK, "", models.Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
		Data:       posts,
	})
}

// ListMyPosts returns the authenticated user's posts, newest first.
func (h *Handler) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	page, limit := pageParams(r)
	posts, total, err := h.store.ListPostsByUser(r.Context(), claims.UserID, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	h.attachAuthors(r, posts)
	respondSuccess(w, http.StatusOK, "", models.Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
		Data:       posts,
	})
}

// UpdatePost edits caption or category. Only the author may update.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	post, err := h.store.GetPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}
	if post.UserID != claims.UserID {
		respondError(w, http.StatusForbidden, MsgNotOwner, nil)
		return
	}

	var req UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	if req.Caption != "" {
		post.Caption = req.Caption
	}
	if req.Category != "" {
		post.Category = strings.ToLower(req.Category)
	}
	post.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdatePost(r.Context(), post); err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Post updated successfully", post)
}

// DeletePost removes a post with its comments, replies, and media asset.
// Only the author may delete.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	post, err := h.store.GetPost(r.Context(), postID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}
	if post.UserID != claims.UserID {
		respondError(w, http.StatusForbidden, MsgNotOwner, nil)
		return
	}

	deleted, err := h.store.DeletePostCascade(r.Context(), postID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}

	h.destroyAsset(r.Context(), deleted.CloudinaryID, deleted.MediaType)
	h.wsHub.BroadcastPostDeleted(deleted.ID)

	respondSuccess(w, http.StatusOK, "Post deleted successfully", nil)
}

// LikePost toggles the caller's like on a post. The like set and counter
// change in one transaction, so the counter always matches the set.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	liked, likeCount, err := h.store.TogglePostLike(r.Context(), chi.URLParam(r, "postID"), claims.UserID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}

	action := "unliked"
	if liked {
		action = "liked"
	}
	metrics.LikesToggled.WithLabelValues("post", action).Inc()

	respondSuccess(w, http.StatusOK, "", models.LikeResult{Liked: liked, LikeCount: likeCount})
}

// SharePost bumps the share counter for a post.
func (h *Handler) SharePost(w http.ResponseWriter, r *http.Request) {
	shareCount, err := h.store.IncrementShareCount(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]int{"shareCount": shareCount})
}

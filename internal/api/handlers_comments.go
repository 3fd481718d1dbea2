// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/metrics"
	"github.com/vericapture/vericapture/internal/models"
)

// CommentRequest carries the text of a comment or reply.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// CreateComment adds a comment to a post and bumps its comment counter.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    chi.URLParam(r, "postID"),
		UserID:    claims.UserID,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateComment(r.Context(), comment); err != nil {
		status, msg := storeErrorStatus(err, MsgPostNotFound)
		respondError(w, status, msg, err)
		return
	}

	metrics.CommentsCreated.Inc()
	respondSuccess(w, http.StatusCreated, "Comment added successfully", comment)
}

// ListComments returns a post's comments, oldest first.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	comments, total, err := h.store.ListCommentsByPost(r.Context(), chi.URLParam(r, "postID"), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", models.Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
		Data:       comments,
	})
}

// UpdateComment edits a comment's text. Only the author may update.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	comment, err := h.store.GetComment(r.Context(), chi.URLParam(r, "commentID"))
	if err != nil {
		status, msg := storeErrorStatus(err, MsgCommentNotFound)
		respondError(w, status, msg, err)
		return
	}
	if comment.UserID != claims.UserID {
		respondError(w, http.StatusForbidden, MsgNotOwner, nil)
		return
	}

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	comment.Text = req.Text
	comment.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateComment(r.Context(), comment); err != nil {
		status, msg := storeErrorStatus(err, MsgCommentNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Comment updated successfully", comment)
}

// DeleteComment removes a comment and its replies, decrementing the
// post's comment counter. Only the author may delete.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	commentID := chi.URLParam(r, "commentID")

	comment, err := h.store.GetComment(r.Context(), commentID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgCommentNotFound)
		respondError(w, status, msg, err)
		return
	}
	if comment.UserID != claims.UserID {
		respondError(w, http.StatusForbidden, MsgNotOwner, nil)
		return
	}

	if _, err := h.store.DeleteCommentCascade(r.Context(), commentID); err != nil {
		status, msg := storeErrorStatus(err, MsgCommentNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Comment deleted successfully", nil)
}

// LikeComment toggles the caller's like on a comment.
func (h *Handler) LikeComment(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	liked, likeCount, err := h.store.ToggleCommentLike(r.Context(), chi.URLParam(r, "commentID"), claims.UserID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgCommentNotFound)
		respondError(w, status, msg, err)
		return
	}

	action := "unliked"
	if liked {
		action = "liked"
	}
	metrics.LikesToggled.WithLabelValues("comment", action).Inc()

	respondSuccess(w, http.StatusOK, "", models.LikeResult{Liked: liked, LikeCount: likeCount})
}

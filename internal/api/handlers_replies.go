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

// CreateReply adds a reply under a comment and bumps its reply counter.
func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	now := time.Now().UTC()
	reply := &models.Reply{
		ID:        uuid.NewString(),
		CommentID: chi.URLParam(r, "commentID"),
		UserID:    claims.UserID,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateReply(r.Context(), reply); err != nil {
		status, msg := storeErrorStatus(err, MsgCommentNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Reply added successfully", reply)
}

// ListReplies returns a comment's replies, oldest first.
func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	replies, total, err := h.store.ListRepliesByComment(r.Context(), chi.URLParam(r, "commentID"), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", models.Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
		Data:       replies,
	})
}

// UpdateReply edits a reply's text. Only the author may update.
func (h *Handler) UpdateReply(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	reply, err := h.store.GetReply(r.Context(), chi.URLParam(r, "replyID"))
	if err != nil {
		status, msg := storeErrorStatus(err, MsgReplyNotFound)
		respondError(w, status, msg, err)
		return
	}
	if reply.UserID != claims.UserID {
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

	reply.Text = req.Text
	reply.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateReply(r.Context(), reply); err != nil {
		status, msg := storeErrorStatus(err, MsgReplyNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Reply updated successfully", reply)
}

// DeleteReply removes a reply and decrements the parent comment's reply
// counter. Only the author may delete.
func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	replyID := chi.URLParam(r, "replyID")

	reply, err := h.store.GetReply(r.Context(), replyID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgReplyNotFound)
		respondError(w, status, msg, err)
		return
	}
	if reply.UserID != claims.UserID {
		respondError(w, http.StatusForbidden, MsgNotOwner, nil)
		return
	}

	if _, err := h.store.DeleteReply(r.Context(), replyID); err != nil {
		status, msg := storeErrorStatus(err, MsgReplyNotFound)
		respondError(w, status, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Reply deleted successfully", nil)
}

// LikeReply toggles the caller's like on a reply.
func (h *Handler) LikeReply(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	liked, likeCount, err := h.store.ToggleReplyLike(r.Context(), chi.URLParam(r, "replyID"), claims.UserID)
	if err != nil {
		status, msg := storeErrorStatus(err, MsgReplyNotFound)
		respondError(w, status, msg, err)
		return
	}

	action := "unliked"
	if liked {
		action = "liked"
	}
	metrics.LikesToggled.WithLabelValues("reply", action).Inc()

	respondSuccess(w, http.StatusOK, "", models.LikeResult{Liked: liked, LikeCount: likeCount})
}

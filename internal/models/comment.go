// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package models

import "time"

// Comment is a top-level comment on a post. Like posts, the Likes set and
// LikeCount are kept consistent within one store transaction.
type Comment struct {
	ID         string   `json:"id"`
	PostID     string   `json:"postId"`
	UserID     string   `json:"userId"`
	Text       string   `json:"text"`
	Likes      []string `json:"likes"`
	LikeCount  int      `json:"likeCount"`
	ReplyCount int      `json:"replyCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID is in the comment's like set.
func (c *Comment) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Reply is a nested reply to a comment. PostID is denormalized so reply
// cascades never need a comment lookup.
type Reply struct {
	ID        string   `json:"id"`
	CommentID string   `json:"commentId"`
	PostID    string   `json:"postId"`
	UserID    string   `json:"userId"`
	Text      string   `json:"text"`
	Likes     []string `json:"likes"`
	LikeCount int      `json:"likeCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID is in the reply's like set.
func (r *Reply) LikedBy(userID string) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package models

import "time"

// Media resource types as stored on posts.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post is a geo-tagged media capture shared to the feed.
//
// Likes holds the IDs of users who currently like the post; LikeCount
// always equals len(Likes). Both are updated in a single store
// transaction so the two can never drift.
type Post struct {
	ID           string   `json:"id"`
	UserID       string   `json:"userId"`
	Caption      string   `json:"caption,omitempty"`
	MediaURL     string   `json:"mediaUrl"`
	MediaType    string   `json:"mediaType"`
	CloudinaryID string   `json:"cloudinaryId,omitempty"`
	Category     string   `json:"category"`
	Latitude     float64  `json:"latitude,omitempty"`
	Longitude    float64  `json:"longitude,omitempty"`
	Address      string   `json:"address,omitempty"`
	Likes        []string `json:"likes"`
	LikeCount    int      `json:"likeCount"`
	CommentCount int      `json:"commentCount"`
	ShareCount   int      `json:"shareCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Author is filled in on read paths only; it stays nil (and is
	// omitted from the stored document) everywhere else.
	Author *PostAuthor `json:"author,omitempty"`
}

// PostAuthor is the author display projection attached to posts served
// to clients.
type PostAuthor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package models defines the persisted entities and API payload types
// shared across the store and HTTP layers.
package models

import "time"

// User is a registered VeriCapture account.
// PasswordHash and CloudinaryID never leave the server; Public() produces
// the client-facing projection.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	UserName     string    `json:"userName,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	CloudinaryID string    `json:"cloudinaryId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	UserName  string    `json:"userName,omitempty"`
	Email     string    `json:"email"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the projection safe to return to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		Email:     u.Email,
		Thumbnail: u.Thumbnail,
		CreatedAt: u.CreatedAt,
	}
}

// UserSearchResult is the slim projection returned by the user search
// endpoint, mirroring the fields the feed UI renders.
type UserSearchResult struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package models

// APIResponse is the uniform envelope returned by every HTTP endpoint.
//
// Example success:
//
//	{"success": true, "message": "Login successful", "data": {...}}
//
// Example failure:
//
//	{"success": false, "message": "Invalid credentials"}
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Page wraps a paginated result set.
type Page struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Data       interface{} `json:"data"`
}

// UserSearchPage is the payload for the user search endpoint. The total
// field keeps the historical name from the public API.
type UserSearchPage struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalUsers int         `json:"totalUsers"`
	TotalPages int         `json:"totalPages"`
	Data       interface{} `json:"data"`
}

// LikeResult is the payload returned by like toggle endpoints.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"errors"
	"net/http"

	"github.com/vericapture/vericapture/internal/store"
)

// Response messages kept stable for API clients.
const (
	MsgRegistrationSuccessful = "Registration successful"
	MsgLoginSuccessful        = "Login successful"
	MsgLogoutSuccessful       = "Logout successful"
	MsgProfileUpdated         = "Profile update successful"
	MsgAccountDeleted         = "Your account has been deleted successfully"
	MsgUserExists             = "User already exists. Please login"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgUserNotFound           = "User not found"
	MsgNoUsersFound           = "No users found"
	MsgNoMorePages            = "No more page available"
	MsgSearchNameRequired     = "Please provide name for the search"
	MsgRegisterFieldsRequired = "First Name, Last Name, E-mail and Password are required"

	MsgPostNotFound    = "Post not found"
	MsgCommentNotFound = "Comment not found"
	MsgReplyNotFound   = "Reply not found"
	MsgNotOwner        = "You are not allowed to modify this resource"

	MsgInternalError    = "Something went wrong. Please try again later"
	MsgMediaUnavailable = "Media uploads are currently unavailable"
	MsgMediaRequired    = "A media file is required"
	MsgMediaUnsupported = "Only image and video uploads are supported"
)

// storeErrorStatus maps store errors onto the API error taxonomy:
// missing documents become 404, uniqueness conflicts 409, and anything
// else a generic 500.
func storeErrorStatus(err error, notFoundMsg string) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, notFoundMsg
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict, MsgUserExists
	case errors.Is(err, store.ErrDuplicateUserName):
		return http.StatusConflict, "Username is already taken"
	default:
		return http.StatusInternalServerError, MsgInternalError
	}
}

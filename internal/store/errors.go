// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package store

import "errors"

// Sentinel errors returned by store operations. The HTTP layer maps these
// onto response status codes.
var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user registration or update
	// would reuse an existing e-mail address.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateUserName is returned when a user registration or update
	// would reuse an existing username.
	ErrDuplicateUserName = errors.New("username already taken")
)

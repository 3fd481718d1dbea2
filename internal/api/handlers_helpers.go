// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/models"
	"github.com/vericapture/vericapture/internal/validation"
)

// sanitizeLogValue removes control characters from strings so request
// data cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends an envelope response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondSuccess sends a success envelope with optional data
func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError sends an error envelope. err is logged, never returned
// to the client.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().
			Int("status", status).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("api error")
	}

	respondJSON(w, status, &models.APIResponse{
		Success: false,
		Message: message,
	})
}

// decodeJSON decodes a request body into dst. Returns false after
// writing a 400 response when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Request body must be valid JSON", err)
		return false
	}
	return true
}

// validateRequest validates a struct using go-playground/validator.
// Returns false after writing a 400 response when validation fails.
func validateRequest(w http.ResponseWriter, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error(), nil)
		return false
	}
	return true
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageParams extracts 1-based page and bounded limit query parameters.
func pageParams(r *http.Request) (page, limit int) {
	page = getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = getIntParam(r, "limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// totalPages computes the page count for a total at the given limit.
func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// sniffLimit is how many leading bytes are inspected for MIME detection.
const sniffLimit = 512

// readMultipartFile reads the named file part fully and sniffs its MIME
// type from the leading bytes. Returns a nil reader without error when
// the part is absent. Uploads are already bounded by MaxBytesReader, so
// buffering the whole part is safe.
func readMultipartFile(r *http.Request, field string) (io.Reader, string, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	head := content
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	mimeType := http.DetectContentType(head)

	return bytes.NewReader(content), mimeType, nil
}

// parseMultipart parses a multipart form bounded by the configured upload
// size. Returns false after writing a 400 response on malformed input.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	maxBytes := h.config.Media.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Request must be a multipart form within the upload size limit", err)
		return false
	}
	return true
}

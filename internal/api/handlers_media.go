// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/media"
)

// errMediaUnavailable is returned when an upload is attempted without a
// configured media host.
var errMediaUnavailable = errors.New("media host not configured")

// errUnsupportedMedia is returned when the sniffed content type is
// neither an image nor a video.
var errUnsupportedMedia = errors.New("unsupported media content type")

// uploadedAsset is the result of a form file upload to the media host.
type uploadedAsset struct {
	URL       string
	PublicID  string
	MediaType string
}

// uploadFormFile uploads the named multipart file part to the media host.
// Returns (nil, nil) when the part is absent.
func (h *Handler) uploadFormFile(r *http.Request, field string) (*uploadedAsset, error) {
	file, contentType, err := readMultipartFile(r, field)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, nil
	}
	resourceType := media.DetectResourceType(contentType)
	if resourceType == "" {
		return nil, errUnsupportedMedia
	}
	if h.uploader == nil {
		return nil, errMediaUnavailable
	}

	asset, err := h.uploader.Upload(r.Context(), file, h.config.Media.UploadFolder)
	if err != nil {
		return nil, err
	}
	if asset.ResourceType == "" {
		asset.ResourceType = resourceType
	}
	return &uploadedAsset{
		URL:       asset.URL,
		PublicID:  asset.PublicID,
		MediaType: asset.ResourceType,
	}, nil
}

// respondUploadError maps media upload failures onto the error taxonomy.
func respondUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnsupportedMedia):
		respondError(w, http.StatusBadRequest, MsgMediaUnsupported, err)
	case errors.Is(err, errMediaUnavailable):
		respondError(w, http.StatusServiceUnavailable, MsgMediaUnavailable, err)
	default:
		respondError(w, http.StatusInternalServerError, MsgInternalError, err)
	}
}

// destroyAsset removes a media host asset, logging failures instead of
// surfacing them. Callers invoke it after the owning document is gone.
func (h *Handler) destroyAsset(ctx context.Context, publicID, mediaType string) {
	if h.uploader == nil || publicID == "" {
		return
	}
	if err := h.uploader.Destroy(ctx, publicID, mediaType); err != nil {
		logging.Warn().Err(err).Str("public_id", publicID).Msg("failed to destroy media asset")
	}
}

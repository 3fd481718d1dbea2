// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package media uploads post media and user avatars to the Cloudinary
// media host. All calls pass through a circuit breaker so a degraded
// media host fails fast instead of tying up request handlers.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vericapture/vericapture/internal/config"
	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/metrics"
)

// Asset describes a stored media asset.
type Asset struct {
	URL          string
	PublicID     string
	ResourceType string // "image" or "video"
}

// Uploader is the media host interface used by the HTTP layer.
// Satisfied by *CloudinaryClient and by test fakes.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (*Asset, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// CloudinaryClient implements Uploader against the Cloudinary API.
//
// Breaker policy: open after a 60% failure rate across at least 5
// requests, retry after 1 minute. An open breaker rejects calls
// immediately with gobreaker.ErrOpenState.
type CloudinaryClient struct {
	cld       *cloudinary.Cloudinary
	uploadCB  *gobreaker.CircuitBreaker[*uploader.UploadResult]
	destroyCB *gobreaker.CircuitBreaker[*uploader.DestroyResult]
}

// NewCloudinaryClient builds a client from the media configuration.
func NewCloudinaryClient(cfg config.MediaConfig) (*CloudinaryClient, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	return &CloudinaryClient{
		cld:       cld,
		uploadCB:  gobreaker.NewCircuitBreaker[*uploader.UploadResult](breakerSettings("cloudinary-upload")),
		destroyCB: gobreaker.NewCircuitBreaker[*uploader.DestroyResult](breakerSettings("cloudinary-destroy")),
	}, nil
}

// breakerSettings returns the shared circuit breaker policy.
func breakerSettings(name string) gobreaker.Settings {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("media host circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Upload stores file in the given folder. The resource type is detected
// by Cloudinary ("auto"), so the same path serves images and videos.
func (c *CloudinaryClient) Upload(ctx context.Context, file io.Reader, folder string) (*Asset, error) {
	start := time.Now()

	result, err := c.uploadCB.Execute(func() (*uploader.UploadResult, error) {
		res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:       folder,
			ResourceType: "auto",
		})
		if err != nil {
			return nil, err
		}
		if res.Error.Message != "" {
			return nil, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
		}
		return res, nil
	})
	if err != nil {
		metrics.MediaUploads.WithLabelValues("upload", uploadOutcome(err)).Inc()
		return nil, fmt.Errorf("upload media: %w", err)
	}

	metrics.MediaUploads.WithLabelValues("upload", "success").Inc()
	metrics.MediaUploadDuration.Observe(time.Since(start).Seconds())

	return &Asset{
		URL:          result.SecureURL,
		PublicID:     result.PublicID,
		ResourceType: result.ResourceType,
	}, nil
}

// Destroy removes the asset with the given public ID from the media host.
// Absent assets are treated as already destroyed.
func (c *CloudinaryClient) Destroy(ctx context.Context, publicID, resourceType string) error {
	if publicID == "" {
		return nil
	}
	if resourceType == "" {
		resourceType = "image"
	}

	_, err := c.destroyCB.Execute(func() (*uploader.DestroyResult, error) {
		res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: resourceType,
		})
		if err != nil {
			return nil, err
		}
		if res.Result != "ok" && res.Result != "not found" {
			return nil, fmt.Errorf("cloudinary destroy: %s", res.Result)
		}
		return res, nil
	})
	if err != nil {
		metrics.MediaUploads.WithLabelValues("destroy", uploadOutcome(err)).Inc()
		return fmt.Errorf("destroy media %s: %w", publicID, err)
	}

	metrics.MediaUploads.WithLabelValues("destroy", "success").Inc()
	return nil
}

// uploadOutcome labels an error for the media metrics.
func uploadOutcome(err error) string {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "rejected"
	}
	return "failure"
}

// DetectResourceType maps a sniffed MIME type to the stored media type.
// Returns empty string for unsupported content.
func DetectResourceType(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	default:
		return ""
	}
}

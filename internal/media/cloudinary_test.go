// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package media

import (
	"testing"

	"github.com/vericapture/vericapture/internal/config"
)

func TestDetectResourceType(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", "image"},
		{"image/png", "image"},
		{"image/webp", "image"},
		{"video/mp4", "video"},
		{"video/quicktime", "video"},
		{"application/pdf", ""},
		{"text/html", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DetectResourceType(tt.mime); got != tt.want {
			t.Errorf("DetectResourceType(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestNewCloudinaryClient(t *testing.T) {
	client, err := NewCloudinaryClient(config.MediaConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	})
	if err != nil {
		t.Fatalf("NewCloudinaryClient: %v", err)
	}
	if client.cld == nil || client.uploadCB == nil || client.destroyCB == nil {
		t.Error("client not fully initialized")
	}
}

func TestDestroyEmptyPublicIDIsNoop(t *testing.T) {
	client, err := NewCloudinaryClient(config.MediaConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	})
	if err != nil {
		t.Fatalf("NewCloudinaryClient: %v", err)
	}
	// No asset to release; must not call the media host.
	if err := client.Destroy(t.Context(), "", "image"); err != nil {
		t.Errorf("Destroy with empty public ID = %v, want nil", err)
	}
}

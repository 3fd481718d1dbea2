// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package config provides layered configuration loading for VeriCapture.
//
// Configuration is resolved in three layers, later layers overriding earlier:
//
//  1. Struct defaults (defaultConfig)
//  2. YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (VERICAPTURE_* prefix)
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the VeriCapture server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Media    MediaConfig    `koanf:"media"`
	Mail     MailConfig     `koanf:"mail"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production". Production enables
	// the Secure flag on auth cookies.
	Environment string `koanf:"environment"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// DatabaseConfig holds Badger document store settings.
type DatabaseConfig struct {
	// Path is the directory for Badger data files.
	Path string `koanf:"path"`

	// InMemory runs the store without disk persistence (tests only).
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often value log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCDiscardRatio is the Badger value log GC discard ratio (0-1).
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`
}

// SecurityConfig holds authentication and request protection settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the session token lifetime. Auth cookies expire with it.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// CORSOrigins is the list of allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests / RateLimitWindow set the default API rate limit.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// MediaConfig holds Cloudinary media host credentials and upload limits.
type MediaConfig struct {
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`

	// UploadFolder is the Cloudinary folder that receives uploads.
	UploadFolder string `koanf:"upload_folder"`

	// MaxUploadBytes bounds multipart media uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// Enabled reports whether a media host is configured.
func (m MediaConfig) Enabled() bool {
	return m.CloudName != "" && m.APIKey != "" && m.APISecret != ""
}

// MailConfig holds SMTP settings for outbound mail.
// Mail delivery is disabled when Host is empty.
type MailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`

	// QueueSize is the buffered mail queue capacity.
	QueueSize int `koanf:"queue_size"`

	// SendsPerMinute caps outbound delivery rate.
	SendsPerMinute int `koanf:"sends_per_minute"`
}

// Enabled reports whether outbound mail is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied.
// These are overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:           "./data/vericapture",
			InMemory:       false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Security: SecurityConfig{
			JWTSecret: "",
			TokenTTL:  72 * time.Hour,
			CORSOrigins: []string{
				"http://localhost:5000",
				"http://localhost:5173",
				"http://127.0.0.1:5173",
				"https://www.vericapture.com.ng",
			},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Media: MediaConfig{
			UploadFolder:   "vericapture",
			MaxUploadBytes: 50 << 20,
		},
		Mail: MailConfig{
			Port:           587,
			From:           "no-reply@vericapture.com.ng",
			QueueSize:      256,
			SendsPerMinute: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that would prevent a
// safe startup. It is called by Load after all layers are applied.
func (c *Config) Validate() error {
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive")
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.GCDiscardRatio <= 0 || c.Database.GCDiscardRatio >= 1 {
		return fmt.Errorf("database.gc_discard_ratio must be in (0, 1)")
	}
	if c.Mail.Enabled() && c.Mail.From == "" {
		return fmt.Errorf("mail.from is required when mail.host is set")
	}
	return nil
}

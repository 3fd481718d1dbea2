// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vericapture/config.yaml",
	"/etc/vericapture/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix is the prefix for all VeriCapture environment variables.
// VERICAPTURE_SERVER_PORT maps to server.port, and so on.
const EnvPrefix = "VERICAPTURE_"

// Load builds the configuration from defaults, an optional YAML file,
// and VERICAPTURE_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: struct defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when supplied through environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env var strings into slices
// for the known slice-valued config paths.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps VERICAPTURE_* environment variable names to koanf
// config paths. The prefix is stripped before this function is called.
//
// Examples:
//   - VERICAPTURE_SERVER_PORT        -> server.port
//   - VERICAPTURE_JWT_SECRET         -> security.jwt_secret
//   - VERICAPTURE_CLOUDINARY_API_KEY -> media.api_key
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	// Shorthand names that don't follow the section_field convention.
	envMappings := map[string]string{
		"jwt_secret":            "security.jwt_secret",
		"token_ttl":             "security.token_ttl",
		"cors_origins":          "security.cors_origins",
		"rate_limit_requests":   "security.rate_limit_requests",
		"rate_limit_window":     "security.rate_limit_window",
		"rate_limit_disabled":   "security.rate_limit_disabled",
		"environment":           "server.environment",
		"cloudinary_name":       "media.cloud_name",
		"cloudinary_cloud_name": "media.cloud_name",
		"cloudinary_api_key":    "media.api_key",
		"cloudinary_secret":     "media.api_secret",
		"cloudinary_api_secret": "media.api_secret",
		"smtp_host":             "mail.host",
		"smtp_port":             "mail.port",
		"smtp_username":         "mail.username",
		"smtp_password":         "mail.password",
		"smtp_from":             "mail.from",
		"log_level":             "logging.level",
		"log_format":            "logging.format",
		"database_path":         "database.path",
		"database_gc_interval":  "database.gc_interval",
	}
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// section_field -> section.field for known sections.
	for _, section := range []string{"server", "database", "security", "media", "mail", "logging"} {
		prefix := section + "_"
		if strings.HasPrefix(key, prefix) {
			return section + "." + strings.TrimPrefix(key, prefix)
		}
	}

	return key
}

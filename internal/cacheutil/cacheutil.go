// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tfctl/cromwell-infra/internal/log"
)

// templatesDir holds the last synthesized template per stack.
const templatesDir = "templates"

// Entry represents a cached artifact on disk.
// Key is the clear-text key; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Dir resolves the base cache directory.
// Precedence:
//  1. CROMWELL_INFRA_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/cromwell-infra
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("CROMWELL_INFRA_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "cromwell-infra"), true
	}
	return "", false
}

// Enabled returns true unless CROMWELL_INFRA_CACHE is "0" or "false".
func Enabled() bool {
	enabled := os.Getenv("CROMWELL_INFRA_CACHE")
	return enabled != "0" && enabled != "false"
}

// EntryPath returns the absolute path where a cache entry would live given
// subdirectory components and the clear-text key, and whether a file exists
// there now.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append([]string{base}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Read attempts to read a cached entry.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		log.WithError(err).Warnf("unreadable cache entry %s", p)
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
	}, true
}

// Write stores data for the given key beneath subdirs. Creates directories as
// needed. A disabled cache makes this a no-op.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s path=%s", clearKey, p)
	return nil
}

// SaveTemplate records the JSON template last synthesized for stackID.
func SaveTemplate(stackID string, template []byte) error {
	return Write([]string{templatesDir}, stackID, template)
}

// LastTemplate returns the JSON template last synthesized for stackID.
func LastTemplate(stackID string) ([]byte, bool) {
	entry, ok := Read([]string{templatesDir}, stackID)
	if !ok {
		return nil, false
	}
	return entry.Data, true
}

func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

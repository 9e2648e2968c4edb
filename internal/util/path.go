// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeFilename returns the last element of filename. It fails when
// nothing usable is left, e.g. for "", "/" or "..".
func SanitizeFilename(filename string) (string, error) {
	base := filepath.Base(filename)
	if !ValidName(base) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return base, nil
}

// ValidName reports whether s can be used as a single path element inside
// a managed directory: non-empty, not "." or "..", and free of separators.
func ValidName(s string) bool {
	if s == "" || s == "." || strings.ContainsAny(s, `/\`) {
		return false
	}
	return filepath.IsLocal(s)
}

// SafeJoinPath joins parts below basePath. It fails when the joined parts
// are absolute or climb out of basePath.
func SafeJoinPath(basePath string, parts ...string) (string, error) {
	rel := filepath.Join(parts...)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("path %q escapes %s", rel, basePath)
	}
	return filepath.Join(basePath, rel), nil
}

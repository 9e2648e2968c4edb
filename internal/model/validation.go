// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"sort"
	"strings"
)

// ValidationError collects per-field validation messages for an input.
// It is returned before anything reaches the store.
type ValidationError struct {
	Fields map[string]string
}

// Add records a message for a field. The first message for a field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed validation.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns e as an error, or nil when no field failed.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CleanText trims surrounding whitespace. Text is stored as entered;
// HTML output is sanitised when rendered.
func CleanText(s string) string {
	return strings.TrimSpace(s)
}

// optionalText converts an empty string to nil.
func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// textValue dereferences an optional string.
func textValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

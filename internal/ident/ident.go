// Package ident canonicalises user-supplied document identifiers.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// GeneratedPrefix is prepended to freshly generated identifier tags.
const GeneratedPrefix = "doc_"

// Normalize converts raw into a safe identifier: lowercase, [a-z0-9_-] only,
// no repeated or dangling underscores. An empty result yields an empty string;
// use NormalizeWithDefaults when a guaranteed identifier is needed.
func Normalize(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(cleaned))
	lastUnderscore := false
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			// everything else, including '_', collapses into a single '_'
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// NormalizeWithDefaults is a total version of Normalize: when the cleaned
// value is empty it falls back to the first configured default, then to a
// generated tag. The result is always non-empty.
func NormalizeWithDefaults(raw string, defaults []string) string {
	if cleaned := Normalize(raw); cleaned != "" {
		return cleaned
	}
	for _, d := range defaults {
		if d != "" {
			return d
		}
	}
	return Generate()
}

// Generate returns a fresh identifier: GeneratedPrefix plus 8 hex characters.
func Generate() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return GeneratedPrefix + hex[:8]
}

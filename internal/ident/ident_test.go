package ident

import (
	"regexp"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Quarterly Report.pdf", "quarterly_report_pdf"},
		{"  MixedCASE-id  ", "mixedcase-id"},
		{"a__b___c", "a_b_c"},
		{"__leading_and_trailing__", "leading_and_trailing"},
		{"weird!!chars##here", "weird_chars_here"},
		{"already-clean_id42", "already-clean_id42"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeOutputAlphabetAndIdempotence(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9_-]*$`)
	inputs := []string{
		"Report (final) v2.docx",
		"résumé.pdf",
		"  spaces   everywhere  ",
		"UPPER_lower-123",
		"///slashes\\\\and\ttabs",
	}
	for _, in := range inputs {
		got := Normalize(in)
		if !valid.MatchString(got) {
			t.Fatalf("Normalize(%q) = %q contains invalid characters", in, got)
		}
		if again := Normalize(got); again != got {
			t.Fatalf("Normalize not idempotent for %q: %q -> %q", in, got, again)
		}
	}
}

func TestNormalizeWithDefaults(t *testing.T) {
	if got := NormalizeWithDefaults("My File", []string{"kb_default"}); got != "my_file" {
		t.Fatalf("expected cleaned value to win, got %q", got)
	}
	if got := NormalizeWithDefaults("", []string{"", "kb_default"}); got != "kb_default" {
		t.Fatalf("expected first non-empty default, got %q", got)
	}
}

func TestNormalizeWithDefaultsGenerates(t *testing.T) {
	hexRe := regexp.MustCompile(`^[0-9a-f]{8}$`)
	got := NormalizeWithDefaults("", nil)
	if !strings.HasPrefix(got, GeneratedPrefix) {
		t.Fatalf("expected generated id with prefix %q, got %q", GeneratedPrefix, got)
	}
	tag := strings.TrimPrefix(got, GeneratedPrefix)
	if !hexRe.MatchString(tag) {
		t.Fatalf("expected 8 hex chars after prefix, got %q", tag)
	}
	if other := NormalizeWithDefaults("", nil); other == got {
		t.Fatalf("generated ids should not repeat: %q", got)
	}
}

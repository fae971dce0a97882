package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"access_token", "abc",
		"app_secret", "shh",
		"recipient", "1234567890",
		"action", "goto/start",
	})
	if len(out) != 8 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("secrets not redacted: %#v", out)
	}
	hashed, ok := out[5].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") || strings.Contains(hashed, "1234567890") {
		t.Fatalf("recipient not hashed: %#v", out[5])
	}
	if out[7] != "goto/start" {
		t.Fatalf("plain value changed: %#v", out[7])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"k", "v", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("dangling key lost: %#v", out)
	}
}

func TestSanitizeValuePageToken(t *testing.T) {
	token := "EAA" + strings.Repeat("x", 60)
	if got := sanitizeValue("body", token); got != "[REDACTED]" {
		t.Fatalf("page token leaked: %v", got)
	}
	if got := sanitizeValue("body", "EAA short"); got != "EAA short" {
		t.Fatalf("short text redacted: %v", got)
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"test", "development", "production"} {
		t.Run(mode, func(t *testing.T) {
			log, err := New(mode)
			if err != nil {
				t.Fatalf("New(%q): %v", mode, err)
			}
			log.With("component", "test").Debug("hello", "k", "v")
		})
	}
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	MaxRoomIDLen   = 99
	MaxUsernameLen = 50
)

var roomIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidRoomID reports whether s is a usable room identifier:
// non-empty, at most MaxRoomIDLen chars, charset [a-zA-Z0-9-_].
func ValidRoomID(s string) bool {
	if s == "" || len(s) > MaxRoomIDLen {
		return false
	}
	return roomIDPattern.MatchString(s)
}

// SanitizeUsername strips angle brackets, trims whitespace and truncates
// to MaxUsernameLen runes. An empty result falls back to a generated
// guest name, so the caller always gets a usable display name.
func SanitizeUsername(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxUsernameLen {
		s = strings.TrimSpace(string(r[:MaxUsernameLen]))
	}
	if s == "" {
		return fmt.Sprintf("Guest-%d", time.Now().UnixMilli())
	}
	return s
}

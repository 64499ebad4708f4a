package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidWindow = errors.New("invalid window format")
	ErrWindowRange   = errors.New("window out of range")
)

// ParseWindow parses "<start>-<end>" (e.g. "9-20") into a Window.
// Both sides must be integers with 0 <= start < 24, 0 <= end <= 24 and start < end.
// Blanks around either number are tolerated.
func ParseWindow(s string) (Window, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Window{}, fmt.Errorf("%w: start: %v", ErrInvalidWindow, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Window{}, fmt.Errorf("%w: end: %v", ErrInvalidWindow, err)
	}
	if start < 0 || start >= 24 || end < 0 || end > 24 || start >= end {
		return Window{}, fmt.Errorf("%w: %d-%d", ErrWindowRange, start, end)
	}
	return Window{Start: start, End: end}, nil
}

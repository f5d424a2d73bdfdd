// Package clipboard copies paper labels to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	return !clipboard.Unsupported
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	if !IsAvailable() {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}

// Read returns the current clipboard text.
func Read() (string, error) {
	if !IsAvailable() {
		return "", ErrClipboardUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return text, nil
}

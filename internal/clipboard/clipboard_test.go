package clipboard

import (
	"errors"
	"testing"
)

func TestIsAvailable(t *testing.T) {
	// Availability depends on the system; only check it doesn't panic.
	_ = IsAvailable()
}

func TestCopy(t *testing.T) {
	if !IsAvailable() {
		if err := Copy("x"); !errors.Is(err, ErrClipboardUnavailable) {
			t.Errorf("Copy() error = %v, want ErrClipboardUnavailable", err)
		}
		return
	}

	err := Copy("VaswaniAttention2017")
	if errors.Is(err, ErrClipboardUnavailable) {
		t.Skip("no clipboard backend (xclip, xsel, wl-copy) installed")
	}
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	got, err := Read()
	if err != nil {
		t.Skipf("clipboard not readable: %v", err)
	}
	if got != "VaswaniAttention2017" {
		t.Errorf("Read() = %q after Copy", got)
	}
}

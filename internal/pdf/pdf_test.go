package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Published version: https://doi.org/10.1093/sysbio/syab012.", "10.1093/sysbio/syab012"},
		{"doi:10.1234/abc-def (2020)", "10.1234/abc-def"},
		{"no identifier here", ""},
		{"10.12/x", ""},
	}
	for _, tt := range tests {
		if got := findDOI(tt.text); got != tt.want {
			t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFindTitle(t *testing.T) {
	text := "Journal of Things, Volume 3, Issue 2\narXiv:2504.18006v1 [q-bio.PE]\n\nBayesian phylogenetics with variational inference\nJane Doe"
	want := "Bayesian phylogenetics with variational inference"
	if got := findTitle(text); got != want {
		t.Errorf("findTitle() = %q, want %q", got, want)
	}
	if got := findTitle("short\nlines"); got != "" {
		t.Errorf("findTitle() = %q, want empty", got)
	}
}

func TestExtractMetadata_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractMetadata(path); err == nil {
		t.Error("ExtractMetadata() expected error for a non-PDF file")
	}
}

func TestOpenerCommand(t *testing.T) {
	tests := []struct {
		reader string
		goos   string
		want   []string
	}{
		{"system", "linux", []string{"xdg-open", "/p.pdf"}},
		{"system", "darwin", []string{"open", "/p.pdf"}},
		{"skim", "darwin", []string{"open", "-a", "Skim", "/p.pdf"}},
		{"zathura --fork", "linux", []string{"zathura", "--fork", "/p.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.reader+"/"+tt.goos, func(t *testing.T) {
			o := &Opener{reader: tt.reader, goos: tt.goos}
			cmd, err := o.Command("/p.pdf")
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if len(cmd.Args) != len(tt.want) {
				t.Fatalf("Command() args = %v, want %v", cmd.Args, tt.want)
			}
			for i := range tt.want {
				if cmd.Args[i] != tt.want[i] {
					t.Errorf("Command() args = %v, want %v", cmd.Args, tt.want)
				}
			}
		})
	}

	o := &Opener{reader: "preview", goos: "linux"}
	if _, err := o.Command("/p.pdf"); err == nil {
		t.Error("Command() expected error for preview on linux")
	}
}

func TestOpen_Missing(t *testing.T) {
	o := NewOpener("")
	err := o.Open(filepath.Join(t.TempDir(), "none.pdf"))
	if !errors.Is(err, ErrPDFNotFound) {
		t.Errorf("Open() error = %v, want ErrPDFNotFound", err)
	}
}

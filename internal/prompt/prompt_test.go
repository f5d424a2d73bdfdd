package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesNo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"empty picks default yes", "\n", true, true},
		{"empty picks default no", "\n", false, false},
		{"y", "y\n", false, true},
		{"YES", "YES\n", false, true},
		{"n", "n\n", true, false},
		{"retry after garbage", "maybe\ny\n", false, true},
		{"end of input picks default", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			got, err := p.YesNo("Download?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYesNo_Hint(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n\n"), &out)

	_, _ = p.YesNo("Download the paper?", true)
	_, _ = p.YesNo("Download the source?", false)

	assert.Contains(t, out.String(), "Download the paper? (Y/n) ")
	assert.Contains(t, out.String(), "Download the source? (y/N) ")
}

func TestYesNo_TooManyInvalid(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(strings.Repeat("what\n", MaxAttempts+1)), &out)

	_, err := p.YesNo("Overwrite?", false)
	require.ErrorIs(t, err, ErrTooManyInvalidPrompts)
	assert.Equal(t, MaxAttempts, strings.Count(out.String(), "Please answer y or n."))
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"y\n":   true,
		"Y\n":   true,
		"yes\n": false,
		"\n":    false,
		"n\n":   false,
		"":      false,
	} {
		p := New(strings.NewReader(input), &bytes.Buffer{})
		got, err := p.Confirm("Remove?")
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestLine(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("  MyLabel2024 \nsecond\n"), &out)

	got, err := p.Line("Label?")
	require.NoError(t, err)
	assert.Equal(t, "MyLabel2024", got)

	got, err = p.Line("Next?")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	assert.Equal(t, "Label? Next? ", out.String())
}

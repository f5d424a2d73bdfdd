package bib

import (
	"strings"
)

// CommentMarker starts a line that is dropped from edited citations.
const CommentMarker = "%"

const templateHeader = `% Please, paste the bibliography entry of the paper here.
% Lines starting with % are ignored, and so are empty lines.
% Save an empty file to abort.
%
% Example:
%@unpublished{label,
%  author = "Doe, John and Last, First",
%  title = "Title",
%  year = "2000"
%}
`

// Template returns the text the editor opens with when the user has to
// type a citation. Known hints are rendered as an uncommented entry ready
// to be completed.
func Template(source string, h Hints) string {
	var b strings.Builder
	b.WriteString(templateHeader)
	if source != "" {
		b.WriteString("%\n% Source: " + source + "\n")
	}
	if !h.Empty() {
		b.WriteString("%\n% Prefilled from the source; check every field.\n")
		b.WriteString(Render("label", h))
	}
	return b.String()
}

// StripComments drops comment lines and empty lines from edited text.
// Returns "" when nothing is left.
func StripComments(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, CommentMarker) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}

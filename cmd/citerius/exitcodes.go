package main

import (
	"errors"

	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/citation"
	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/finder"
	"github.com/matsen/citerius/internal/library"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success, or the user cancelled
	ExitError       = 1 // Runtime failure
	ExitUsageError  = 2 // Invalid flags or flag combination
	ExitConfigError = 3 // Missing or invalid config file
	ExitDataError   = 4 // Citation not found or unparseable, unknown or duplicate label
)

// exitCodeFor maps an error returned by a command to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, library.ErrCancelled), errors.Is(err, finder.ErrNoSelection):
		return ExitSuccess
	case isUsageError(err), errors.Is(err, ErrInvalidArgumentCombination):
		return ExitUsageError
	case errors.Is(err, config.ErrConfigNotFound), errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, citation.ErrCitationNotFound),
		errors.Is(err, citation.ErrEmptyCitation),
		errors.Is(err, bib.ErrCitationParse),
		errors.Is(err, library.ErrLabelNotFound),
		errors.Is(err, library.ErrLabelExists),
		errors.Is(err, library.ErrInvalidLabel):
		return ExitDataError
	default:
		return ExitError
	}
}

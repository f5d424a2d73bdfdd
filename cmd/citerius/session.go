package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/matsen/citerius/internal/arxiv"
	"github.com/matsen/citerius/internal/citation"
	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/download"
	"github.com/matsen/citerius/internal/editor"
	"github.com/matsen/citerius/internal/finder"
	"github.com/matsen/citerius/internal/git"
	"github.com/matsen/citerius/internal/library"
	"github.com/matsen/citerius/internal/pdf"
	"github.com/matsen/citerius/internal/prompt"
)

// newLogger builds the stderr logger shared by every component.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "citerius",
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig reads the config file, explaining how to create one when it is missing.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage(path))
	}
	return cfg, err
}

// newArxivClient returns the rate-limited client shared by citation
// fetching, downloads and search.
func newArxivClient(cfg *config.Config) *arxiv.Client {
	return arxiv.NewClient(arxiv.WithUserAgent(cfg.UserAgent))
}

// newSession loads the config and wires the real collaborators.
func newSession() (*library.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger()

	f, err := finder.New(cfg.Finder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = arxiv.DefaultUserAgent
	}
	client := newArxivClient(cfg)
	prompter := prompt.Stdio()

	return &library.Session{
		Config: cfg,
		Logger: logger,
		Citations: &citation.Service{
			Arxiv:     client,
			Editor:    editor.New(editor.Resolve(cfg.Editor)),
			LinkHints: &citation.LandingPage{UserAgent: userAgent},
			FileHints: pdf.Hints{},
			Logger:    logger,
		},
		Downloader: &download.Downloader{
			Arxiv:     client,
			UserAgent: userAgent,
			Confirm:   prompter,
			NoConfirm: noConfirm,
			Logger:    logger,
		},
		Prompt: prompter,
		Finder: f,
		Git: &git.Committer{
			Root:  cfg.ReferencesDir,
			Name:  cfg.AuthorName,
			Email: cfg.AuthorEmail,
		},
		Opener:    pdf.NewOpener(cfg.PDFReader),
		NoConfirm: noConfirm,
		Out:       os.Stdout,
	}, nil
}

// requireTerminal refuses interactive flows when stdin is not a terminal.
func requireTerminal(what string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return usageError{fmt.Errorf("%s needs an interactive terminal", what)}
	}
	return nil
}

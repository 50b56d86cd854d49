package logging

import (
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Setup initializes the global slog logger using charmbracelet/log as the
// backend. Terminal output gets the colored text format; everything else
// gets logfmt-style JSON.
func Setup(verbose bool) {
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	})

	if verbose {
		handler.SetLevel(charmlog.DebugLevel)
	} else {
		handler.SetLevel(charmlog.InfoLevel)
	}

	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler.SetFormatter(charmlog.JSONFormatter)
	}

	slog.SetDefault(slog.New(handler))
}

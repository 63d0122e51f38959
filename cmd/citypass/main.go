// citypass is the terminal client for the transit ticketing service:
// log in or register, buy tickets, and browse your tickets and payment
// history.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/dzmb1k/niaspo-kurs/internal/client"
	"github.com/dzmb1k/niaspo-kurs/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var apiURL string
	var tokenPath string
	var logOutput string

	flagSet := pflag.NewFlagSet("citypass", pflag.ContinueOnError)
	flagSet.StringVar(&apiURL, "api", "http://localhost:8080", "base URL of the citypass API")
	flagSet.StringVar(&tokenPath, "token-file", "", "path to the session token file (default: user config dir)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	// The TUI owns the terminal; diagnostics go to a file or nowhere.
	var logWriter io.Writer = io.Discard
	if logOutput != "" {
		f, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logWriter = f
	}
	logger := slog.New(slog.NewJSONHandler(logWriter, nil))

	if tokenPath == "" {
		var err error
		tokenPath, err = client.DefaultTokenPath()
		if err != nil {
			return err
		}
	}

	c := client.New(apiURL, client.NewTokenStore(tokenPath), logger)

	program := tea.NewProgram(tui.NewModel(c, logger), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

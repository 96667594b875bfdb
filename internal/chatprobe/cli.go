package chatprobe

import (
	"fmt"
	"os"

	"github.com/okian/crickdash/pkg/logger"
)

// SetupLogging initializes the logger for the probe.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the chat probe.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`crickdash chat probe
====================

Drives a running dashboard through a player selection, the comparison
views and a short conversation, and checks the state after every step.

Usage:
  go run ./cmd/chat-probe [options]

Options:
  -url string
        Base URL of the dashboard (default "http://localhost:9080")
  -player string
        Player to select (default "virat-kohli")
  -questions string
        Questions separated by '|' (default: three built-in questions)
  -timeout duration
        Request timeout and per-reply wait (default 30s)
  -poll duration
        Interval between chat polls (default 250ms)
  -verbose
        Log every reply
  -help
        Show this help message

Examples:
  go run ./cmd/chat-probe -player joe-root
  go run ./cmd/chat-probe -questions "Best innings?|Weakness?" -verbose
`)
}

// Command chat-probe drives a running dashboard and checks its behaviour.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okian/crickdash/internal/chatprobe"
	"github.com/okian/crickdash/internal/domain/player"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultPoll     = 250 * time.Millisecond
	defaultRunLimit = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the dashboard")
		playerID  = flag.String("player", player.DefaultPlayerID, "Player to select")
		questions = flag.String("questions", "", "Questions separated by '|' (default: built-in questions)")
		timeout   = flag.Duration("timeout", defaultTimeout, "Request timeout and per-reply wait")
		poll      = flag.Duration("poll", defaultPoll, "Interval between chat polls")
		verbose   = flag.Bool("verbose", false, "Log every reply")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		chatprobe.ShowHelp()
		return
	}

	if err := chatprobe.SetupLogging(*verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	cfg := &chatprobe.Config{
		BaseURL:   *baseURL,
		PlayerID:  *playerID,
		Questions: splitQuestions(*questions),
		Timeout:   *timeout,
		Poll:      *poll,
		Verbose:   *verbose,
	}

	if _, err := chatprobe.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}

func splitQuestions(s string) []string {
	var out []string
	for _, q := range strings.Split(s, "|") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

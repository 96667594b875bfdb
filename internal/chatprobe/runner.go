// Package chatprobe drives a running dashboard through a selection, a
// comparison and a short conversation, checking the observed state at
// every step.
package chatprobe

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/okian/crickdash/pkg/logger"
)

const (
	sentinelID      = "default"
	modeTopN        = "top_n"
	modeHeadToHead  = "head_to_head"
	defaultPoll     = 250 * time.Millisecond
	defaultTimeout  = 30 * time.Second
	roleUser        = "user"
	roleAssistant   = "assistant"
	percentMultiple = 100
)

type probe struct {
	cfg   *Config
	c     *client
	log   logger.Logger
	stats *Stats
}

// Run executes the complete probe and returns the collected statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Poll <= 0 {
		cfg.Poll = defaultPoll
	}
	if len(cfg.Questions) == 0 {
		cfg.Questions = DefaultQuestions
	}
	if cfg.FallbackMessage == "" {
		cfg.FallbackMessage = DefaultFallbackMessage
	}

	p := &probe{
		cfg:   cfg,
		c:     newClient(cfg.BaseURL, cfg.Timeout),
		log:   logger.Get().Named("chat-probe"),
		stats: &Stats{StartTime: time.Now()},
	}

	p.log.Info(ctx, "starting chat probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("player", cfg.PlayerID),
		logger.Int("questions", len(cfg.Questions)),
		logger.Duration("timeout", cfg.Timeout),
	)

	// Step 1: Check service health
	if err := p.checkHealth(ctx); err != nil {
		return p.stats, err
	}

	// Step 2: Select the player
	baseline, err := p.selectPlayer(ctx)
	if err != nil {
		return p.stats, fmt.Errorf("selection: %w", err)
	}

	// Step 3: Exercise the comparison views
	if err := p.checkComparison(ctx, baseline); err != nil {
		return p.stats, fmt.Errorf("comparison: %w", err)
	}

	// Step 4: Converse
	if err := p.converse(ctx); err != nil {
		return p.stats, fmt.Errorf("conversation: %w", err)
	}

	p.stats.EndTime = time.Now()
	p.stats.Duration = p.stats.EndTime.Sub(p.stats.StartTime)
	p.displayFinalStats(ctx)

	p.log.Info(ctx, "probe completed successfully")
	return p.stats, nil
}

// checkHealth verifies the service is running.
func (p *probe) checkHealth(ctx context.Context) error {
	if err := p.c.get(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	p.log.Info(ctx, "service is healthy")
	return nil
}

// selectPlayer selects the configured player and checks that the selection
// and the chat session follow it.
func (p *probe) selectPlayer(ctx context.Context) (player, error) {
	var players []player
	if err := p.c.get(ctx, "/players", &players); err != nil {
		return player{}, err
	}
	idx := slices.IndexFunc(players, func(pl player) bool { return pl.ID == p.cfg.PlayerID })
	if err := p.check(idx >= 0, "player %q is in the catalog", p.cfg.PlayerID); err != nil {
		return player{}, err
	}
	target := players[idx]

	var before chatSnapshot
	if err := p.c.get(ctx, "/chat", &before); err != nil {
		return player{}, err
	}

	var view selectionView
	status, apiErr, err := p.c.post(ctx, "/selection", map[string]string{"player_id": target.ID}, &view)
	if err != nil {
		return player{}, err
	}
	if err := p.expectStatus(status, http.StatusOK, apiErr); err != nil {
		return player{}, err
	}

	if err := p.check(view.PlayerID == target.ID, "selection is %q", target.ID); err != nil {
		return player{}, err
	}
	if err := p.check(view.PlayerName == target.Name, "selected name is %q", target.Name); err != nil {
		return player{}, err
	}
	if err := p.check(view.View.ComparisonPlayerID == sentinelID, "comparison is reset to the sentinel"); err != nil {
		return player{}, err
	}

	var after chatSnapshot
	if err := p.c.get(ctx, "/chat", &after); err != nil {
		return player{}, err
	}
	if err := p.check(after.PlayerID == target.ID, "chat is scoped to %q", target.ID); err != nil {
		return player{}, err
	}
	if before.PlayerID != target.ID {
		if err := p.check(after.SessionID != before.SessionID && len(after.Transcript) == 0,
			"a new player starts an empty session"); err != nil {
			return player{}, err
		}
	}

	p.log.Info(ctx, "player selected",
		logger.String("player_id", target.ID),
		logger.String("session_id", after.SessionID),
	)
	return target, nil
}

// checkComparison verifies the top-three default, a head to head choice and
// the self-comparison guard.
func (p *probe) checkComparison(ctx context.Context, baseline player) error {
	var res comparisonResult
	if err := p.c.get(ctx, "/comparison?player="+baseline.ID, &res); err != nil {
		return err
	}
	if err := verifyRanking(res); err != nil {
		return p.fail(err)
	}
	p.stats.Checks++

	var view selectionView
	if err := p.c.get(ctx, "/selection", &view); err != nil {
		return err
	}
	other := ""
	for _, o := range view.View.Options {
		if o.ID != sentinelID && o.ID != baseline.ID {
			other = o.ID
			break
		}
	}
	if err := p.check(other != "", "comparison options offer another player"); err != nil {
		return err
	}

	status, apiErr, err := p.c.post(ctx, "/selection/comparison", map[string]string{"player_id": other}, &view)
	if err != nil {
		return err
	}
	if err := p.expectStatus(status, http.StatusOK, apiErr); err != nil {
		return err
	}
	if err := verifyHeadToHead(view, baseline); err != nil {
		return p.fail(err)
	}
	p.stats.Checks++

	status, _, err = p.c.post(ctx, "/selection/comparison", map[string]string{"player_id": baseline.ID}, nil)
	if err != nil {
		return err
	}
	if err := p.check(status == http.StatusConflict, "self comparison is rejected"); err != nil {
		return err
	}

	p.log.Info(ctx, "comparison verified", logger.String("compared_with", other))
	return nil
}

// converse sends each question, waits for its reply and checks that the
// transcript grows by exactly two turns per exchange.
func (p *probe) converse(ctx context.Context) error {
	var snap chatSnapshot
	if err := p.c.get(ctx, "/chat", &snap); err != nil {
		return err
	}
	turns := len(snap.Transcript)

	for i, q := range p.cfg.Questions {
		clientID := uuid.NewString()
		sent := time.Now()

		var ack ackResponse
		status, apiErr, err := p.c.post(ctx, "/chat/messages",
			map[string]string{"content": q, "client_message_id": clientID}, &ack)
		if err != nil {
			return err
		}
		if err := p.expectStatus(status, http.StatusAccepted, apiErr); err != nil {
			return err
		}
		p.stats.TurnsSent++
		if err := p.check(ack.Status == "accepted" && ack.ExchangeID != "", "turn %d is accepted", i+1); err != nil {
			return err
		}

		// A retry with the same id must not add a turn.
		var dup ackResponse
		status, apiErr, err = p.c.post(ctx, "/chat/messages",
			map[string]string{"content": q, "client_message_id": clientID}, &dup)
		if err != nil {
			return err
		}
		if err := p.expectStatus(status, http.StatusOK, apiErr); err != nil {
			return err
		}
		if err := p.check(dup.Duplicate, "resubmission of turn %d is a duplicate", i+1); err != nil {
			return err
		}
		p.stats.Duplicates++

		snap, err = p.awaitReply(ctx)
		if err != nil {
			return err
		}
		latency := time.Since(sent)
		p.stats.ReplyLatencies = append(p.stats.ReplyLatencies, latency)
		p.stats.RepliesReceived++
		if snap.Transcript[len(snap.Transcript)-1].Content == p.cfg.FallbackMessage {
			p.stats.Fallbacks++
		}

		turns += 2
		if err := verifyExchange(snap, turns, q); err != nil {
			return p.fail(err)
		}
		p.stats.Checks++

		if p.cfg.Verbose {
			p.log.Info(ctx, "reply received",
				logger.Int("turn", i+1),
				logger.Duration("latency", latency),
				logger.String("reply", snap.Transcript[len(snap.Transcript)-1].Content),
			)
		}
	}
	return nil
}

// awaitReply polls GET /chat until no exchange is pending.
func (p *probe) awaitReply(ctx context.Context) (chatSnapshot, error) {
	deadline := time.Now().Add(p.cfg.Timeout)
	ticker := time.NewTicker(p.cfg.Poll)
	defer ticker.Stop()

	for {
		var snap chatSnapshot
		if err := p.c.get(ctx, "/chat", &snap); err != nil {
			return chatSnapshot{}, err
		}
		if !snap.Pending {
			return snap, nil
		}
		if time.Now().After(deadline) {
			return chatSnapshot{}, ErrReplyTimeout
		}
		select {
		case <-ctx.Done():
			return chatSnapshot{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *probe) expectStatus(got, want int, apiErr *apiError) error {
	if got == want {
		return nil
	}
	if apiErr != nil && apiErr.Code != "" {
		return fmt.Errorf("%w: got %d (%s: %s), want %d", ErrUnexpectedStatus, got, apiErr.Code, apiErr.Message, want)
	}
	return fmt.Errorf("%w: got %d, want %d", ErrUnexpectedStatus, got, want)
}

func (p *probe) check(ok bool, format string, args ...any) error {
	if !ok {
		return p.fail(fmt.Errorf(format, args...))
	}
	p.stats.Checks++
	return nil
}

func (p *probe) fail(err error) error {
	p.log.Error(context.Background(), "check failed", logger.Error(err))
	return fmt.Errorf("%w: %w", ErrCheckFailed, err)
}

// displayFinalStats logs the final probe statistics.
func (p *probe) displayFinalStats(ctx context.Context) {
	var total, slowest time.Duration
	for _, l := range p.stats.ReplyLatencies {
		total += l
		slowest = max(slowest, l)
	}
	var avg time.Duration
	if n := len(p.stats.ReplyLatencies); n > 0 {
		avg = total / time.Duration(n)
	}
	var replyRate float64
	if p.stats.TurnsSent > 0 {
		replyRate = float64(p.stats.RepliesReceived-p.stats.Fallbacks) / float64(p.stats.TurnsSent) * percentMultiple
	}

	p.log.Info(ctx, "final statistics",
		logger.Int("turnsSent", p.stats.TurnsSent),
		logger.Int("repliesReceived", p.stats.RepliesReceived),
		logger.Int("fallbacks", p.stats.Fallbacks),
		logger.Int("duplicates", p.stats.Duplicates),
		logger.Int("checks", p.stats.Checks),
		logger.Duration("avgReplyLatency", avg),
		logger.Duration("maxReplyLatency", slowest),
		logger.Float64("replyRate", replyRate),
		logger.String("duration", p.stats.Duration.String()),
	)
}

// Package selection holds the currently selected player and comparison
// choice, and propagates changes to the comparison views and the chat session.
package selection

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/crickdash/internal/domain/comparison"
	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/internal/domain/player"
	"github.com/okian/crickdash/pkg/logger"
	"github.com/okian/crickdash/pkg/metrics"
)

// DefaultSettleWindow is how long derived views are reported stale after a
// selection change.
const DefaultSettleWindow = 800 * time.Millisecond

// View is everything the dashboard renders for the current selection.
// Player is nil when the baseline id does not resolve.
type View struct {
	Player             *player.Record      `json:"player"`
	Trend              []player.TrendPoint `json:"trend"`
	Comparison         []comparison.Row    `json:"comparison"`
	ComparisonMode     comparison.Mode     `json:"comparison_mode,omitempty"`
	ComparisonPlayerID string              `json:"comparison_player_id"`
	Options            []comparison.Option `json:"comparison_options"`
	Settling           bool                `json:"settling"`
	SettlesAt          time.Time           `json:"settles_at"`
}

// Controller owns the selection. The session it was given is reset whenever
// the baseline player changes.
type Controller struct {
	mu           sync.RWMutex
	source       player.Source
	session      *conversation.Session
	baseline     conversation.Player
	comparisonID string
	settleUntil  time.Time

	settle time.Duration
	now    func() time.Time
	log    logger.Logger
}

// NewController creates a controller whose baseline is the session's player.
func NewController(source player.Source, session *conversation.Session, opts ...Option) *Controller {
	c := &Controller{
		source:       source,
		session:      session,
		baseline:     session.Player(),
		comparisonID: comparison.Sentinel,
		settle:       DefaultSettleWindow,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("selection")
	}
	c.settleUntil = c.now().Add(c.settle)
	return c
}

// SelectPlayer replaces the baseline player. The comparison choice always
// returns to the sentinel and the settle window restarts. The chat session is
// reset only when the id actually changes. An empty name is filled from the
// catalog when the id resolves.
func (c *Controller) SelectPlayer(ctx context.Context, id, name string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyPlayerID
	}
	if name == "" {
		if r, err := c.source.Catalog().FindByID(id); err == nil {
			name = r.Name
		}
	}

	c.mu.Lock()
	changed := id != c.baseline.ID
	c.baseline = conversation.Player{ID: id, Name: name}
	c.comparisonID = comparison.Sentinel
	c.settleUntil = c.now().Add(c.settle)
	if changed {
		c.session.Reset(ctx, c.baseline)
	}
	c.mu.Unlock()

	metrics.RecordSelectionChange()
	c.log.Info(ctx, "player selected",
		logger.String("player_id", id),
		logger.Bool("changed", changed),
	)
	return nil
}

// SetComparisonPlayer chooses the head-to-head player. The sentinel or an
// empty id returns to the default ranking. Choosing the baseline itself is
// rejected and leaves the current choice unchanged.
func (c *Controller) SetComparisonPlayer(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.baseline.ID {
		metrics.RecordComparisonRejected()
		return ErrSelfComparison
	}
	if comparison.IsSentinel(id) {
		id = comparison.Sentinel
	}
	c.comparisonID = id
	c.log.Debug(ctx, "comparison player set", logger.String("comparison_id", id))
	return nil
}

// Selection returns the current baseline and comparison ids.
func (c *Controller) Selection() comparison.Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return comparison.Selection{BaselinePlayerID: c.baseline.ID, ComparisonPlayerID: c.comparisonID}
}

// Baseline returns the selected player context.
func (c *Controller) Baseline() conversation.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseline
}

// View derives the rendered state from the current catalog snapshot.
func (c *Controller) View() View {
	c.mu.RLock()
	sel := comparison.Selection{BaselinePlayerID: c.baseline.ID, ComparisonPlayerID: c.comparisonID}
	until := c.settleUntil
	c.mu.RUnlock()

	catalog := c.source.Catalog()
	v := View{
		Trend:              []player.TrendPoint{},
		Comparison:         []comparison.Row{},
		ComparisonPlayerID: sel.ComparisonPlayerID,
		Options:            comparison.Options(catalog, sel.BaselinePlayerID),
		Settling:           c.now().Before(until),
		SettlesAt:          until,
	}
	if r, err := catalog.FindByID(sel.BaselinePlayerID); err == nil {
		v.Player = &r
		v.Trend = comparison.TrendSeries(r)
		v.Comparison, v.ComparisonMode = comparison.ComputeRows(r, sel, catalog)
		if v.ComparisonMode == comparison.ModeTopN {
			v.ComparisonPlayerID = comparison.Sentinel
		}
	}
	return v
}

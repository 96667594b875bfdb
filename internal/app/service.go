// Package service provides the dashboard service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/okian/crickdash/internal/adapters/http/api"
	eventqueue "github.com/okian/crickdash/internal/adapters/mq/queue"
	workerpool "github.com/okian/crickdash/internal/adapters/mq/worker"
	"github.com/okian/crickdash/internal/domain/comparison"
	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/internal/domain/dedupe"
	"github.com/okian/crickdash/internal/domain/player"
	"github.com/okian/crickdash/internal/domain/selection"
	"github.com/okian/crickdash/pkg/logger"
	"github.com/okian/crickdash/pkg/metrics"
)

// ErrNoReplier is returned by Start when no reply client was configured.
var ErrNoReplier = errors.New("no reply client configured")

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	source     player.Source
	replier    conversation.Replier
	session    *conversation.Session
	selection  *selection.Controller
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	defaultPlayerID string
	fallback        string
	replyTimeout    time.Duration
	settleWindow    time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service. Components are built by Start.
func New(opts ...Option) *Service {
	s := &Service{
		source:          player.FixedSource{C: player.Default()},
		workerCount:     runtime.NumCPU(),
		queueSize:       1024,
		dedupeSize:      10000,
		defaultPlayerID: player.DefaultPlayerID,
		fallback:        conversation.DefaultFallbackMessage,
		replyTimeout:    conversation.DefaultReplyTimeout,
		settleWindow:    selection.DefaultSettleWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the session, selection and dispatch pipeline and starts
// the reply workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.replier == nil {
		return ErrNoReplier
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting dashboard service...")

	initial := s.initialPlayer()
	s.session = conversation.NewSession(s.replier, initial,
		conversation.WithFallbackMessage(s.fallback),
		conversation.WithReplyTimeout(s.replyTimeout),
	)
	s.selection = selection.NewController(s.source, s.session,
		selection.WithSettleWindow(s.settleWindow),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	// Workers outlive the caller's context; Stop ends them.
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue)
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("player_id", initial.ID),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// initialPlayer resolves the startup player's display name from the catalog.
func (s *Service) initialPlayer() conversation.Player {
	p := conversation.Player{ID: s.defaultPlayerID, Name: s.defaultPlayerID}
	if rec, err := s.source.Catalog().FindByID(s.defaultPlayerID); err == nil {
		p.Name = rec.Name
	}
	return p
}

// Stop closes the queue and drains the reply workers. Exchanges the workers
// cannot finish are resolved with the fallback.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard service...")

	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "dashboard service stopped")
}

func (s *Service) catalog() *player.Catalog {
	return s.source.Catalog()
}

// ListPlayers returns catalog players, optionally restricted to roles.
func (s *Service) ListPlayers(_ context.Context, roles ...player.Role) []player.Record {
	if len(roles) == 0 {
		return s.catalog().ListAll()
	}
	return s.catalog().FilterByRole(roles...)
}

// Player returns one catalog player.
func (s *Service) Player(_ context.Context, id string) (player.Record, error) {
	return s.catalog().FindByID(id)
}

// Compare computes comparison rows for an explicit selection. It does not
// touch the shared selection.
func (s *Service) Compare(_ context.Context, sel comparison.Selection) (api.ComparisonResult, error) {
	cat := s.catalog()
	baseline, err := cat.FindByID(sel.BaselinePlayerID)
	if err != nil {
		return api.ComparisonResult{}, err
	}
	rows, mode := comparison.ComputeRows(baseline, sel, cat)
	cmpID := sel.ComparisonPlayerID
	if mode == comparison.ModeTopN {
		cmpID = comparison.Sentinel
	}
	return api.ComparisonResult{
		PlayerID:           baseline.ID,
		ComparisonPlayerID: cmpID,
		Mode:               mode,
		Rows:               rows,
	}, nil
}

// Leaderboard returns the n batting-role players with the most runs.
func (s *Service) Leaderboard(_ context.Context, n int) []comparison.Row {
	return comparison.TopN(s.catalog(), n)
}

// View returns the shared selection and everything derived from it.
func (s *Service) View(_ context.Context) api.SelectionView {
	b := s.selection.Baseline()
	return api.SelectionView{PlayerID: b.ID, PlayerName: b.Name, View: s.selection.View()}
}

// SelectPlayer changes the baseline player.
func (s *Service) SelectPlayer(ctx context.Context, id, name string) error {
	return s.selection.SelectPlayer(ctx, id, name)
}

// SetComparisonPlayer changes the comparison choice.
func (s *Service) SetComparisonPlayer(ctx context.Context, id string) error {
	return s.selection.SetComparisonPlayer(ctx, id)
}

// SeenAndRecord atomically checks if a client message id was seen and
// records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordDuplicateMessage()
	}
	return seen
}

// Unrecord forgets a client message id so that it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Chat returns a snapshot of the current session.
func (s *Service) Chat(_ context.Context) conversation.Snapshot {
	return s.session.Snapshot()
}

// BeginExchange appends a user turn to the current session.
func (s *Service) BeginExchange(ctx context.Context, content string) (conversation.Exchange, error) {
	return s.session.Begin(ctx, content)
}

// DispatchExchange queues ex for a reply worker. When the queue refuses the
// job the exchange is resolved with the fallback immediately, so the
// session never stays Awaiting without a worker behind it.
func (s *Service) DispatchExchange(ctx context.Context, ex conversation.Exchange) {
	job := eventqueue.Job{Exchange: ex, Target: s.session, EnqueuedAt: time.Now()}
	if s.eventQueue.Enqueue(ctx, job) {
		return
	}
	s.logger.Warn(ctx, "exchange not queued",
		logger.String("exchange_id", ex.ID),
		logger.Int("queue_length", s.eventQueue.Len(ctx)),
	)
	s.session.Resolve(ctx, ex, "", eventqueue.ErrQueueFull)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"totalPlayers": s.catalog().Len(),
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		snap := s.session.Snapshot()

		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()
		stats["sessionId"] = snap.SessionID
		stats["playerId"] = snap.PlayerID
		stats["chatState"] = snap.State
		stats["transcriptTurns"] = len(snap.Transcript)

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

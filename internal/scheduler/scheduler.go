package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/etymograph/moderation/internal/service"
	"go.uber.org/zap"
)

// Reconciler is the job the scheduler runs on every tick.
type Reconciler interface {
	Reconcile(ctx context.Context, dryRun bool) (service.ReconcileStats, error)
}

type ReconcileScheduler struct {
	log        *zap.Logger
	reconciler Reconciler
	interval   time.Duration

	mu        sync.Mutex
	running   bool
	runs      int
	lastRun   time.Time
	lastStats service.ReconcileStats
	lastErr   string
	stopChan  chan struct{}
}

func NewReconcileScheduler(log *zap.Logger, reconciler Reconciler, interval time.Duration) *ReconcileScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &ReconcileScheduler{
		log:        log.With(zap.String("component", "reconciler")),
		reconciler: reconciler,
		interval:   interval,
	}
}

func (s *ReconcileScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	// Stop가 이전 채널을 닫았을 수 있으므로 실행마다 새로 만듦
	s.stopChan = make(chan struct{})
	stopChan := s.stopChan
	s.mu.Unlock()

	s.log.Info("starting", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("context cancelled, stopping")
			s.setStopped()
			return
		case <-stopChan:
			s.log.Info("stop signal received")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *ReconcileScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
	}
}

func (s *ReconcileScheduler) setStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// RunOnce runs a single reconciliation pass and records its outcome.
func (s *ReconcileScheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	stats, err := s.reconciler.Reconcile(ctx, false)

	s.mu.Lock()
	s.runs++
	s.lastRun = start
	s.lastStats = stats
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("reconcile pass failed", zap.Error(err))
		return
	}
	if stats.Repaired > 0 {
		s.log.Warn("repaired content visibility",
			zap.Int("repaired", stats.Repaired),
			zap.Int("scanned", stats.Scanned),
			zap.Duration("took", time.Since(start)))
	}
}

// GetStatus returns current scheduler status
func (s *ReconcileScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":   s.running,
		"interval":  s.interval.String(),
		"runs":      s.runs,
		"lastStats": s.lastStats,
	}
	if !s.lastRun.IsZero() {
		status["lastRun"] = s.lastRun.UTC().Format(time.RFC3339)
	}
	if s.lastErr != "" {
		status["lastError"] = s.lastErr
	}
	return status
}

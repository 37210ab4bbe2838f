package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IdleSweeper drops sessions nobody has touched for a while.
type IdleSweeper interface {
	CleanupIdle(maxIdle time.Duration) int
}

// ResultPruner deletes stored results past the retention horizon.
type ResultPruner interface {
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

const DefaultInterval = time.Hour

type Worker struct {
	Sessions      IdleSweeper
	Results       ResultPruner // nil when no results store is configured
	MaxIdle       time.Duration
	RetentionDays int
	Interval      time.Duration
	log           *zap.Logger
}

func NewWorker(sessions IdleSweeper, results ResultPruner, maxIdle time.Duration, retentionDays int, interval time.Duration, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "cleanup"))

	if interval <= 0 {
		log.Warn("non-positive cleanup interval, using default",
			zap.Duration("interval", interval), zap.Duration("default", DefaultInterval))
		interval = DefaultInterval
	}

	return &Worker{
		Sessions:      sessions,
		Results:       results,
		MaxIdle:       maxIdle,
		RetentionDays: retentionDays,
		Interval:      interval,
		log:           log,
	}
}

// Run cleans up once immediately and then every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("background worker started", zap.Duration("interval", w.Interval))

	w.RunOnce(ctx)

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("background worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes the actual cleanup logic
func (w *Worker) RunOnce(ctx context.Context) {
	// a non-positive MaxIdle would expire every live session
	if w.Sessions != nil && w.MaxIdle > 0 {
		w.Sessions.CleanupIdle(w.MaxIdle)
	}

	if w.Results == nil || w.RetentionDays <= 0 {
		return
	}

	deleted, err := w.Results.DeleteOlderThan(ctx, w.RetentionDays)
	if err != nil {
		w.log.Error("failed to prune results", zap.Error(err))
		return
	}
	if deleted > 0 {
		w.log.Info("pruned old results", zap.Int64("deleted", deleted), zap.Int("retention_days", w.RetentionDays))
	}
}

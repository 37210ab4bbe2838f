package game

import (
	"context"
	"errors"

	"github.com/iamasit07/connect4/internal/domain"
)

// Recorder stores finished games. Both the Postgres results repository and
// the Redis scoreboard implement it.
type Recorder interface {
	Record(ctx context.Context, result domain.Result) error
}

// MultiRecorder hands every result to each recorder, even when an earlier
// one fails.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, result domain.Result) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopRecorder drops results. Used when no store is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, domain.Result) error {
	return nil
}

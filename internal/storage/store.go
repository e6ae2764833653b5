package storage

import (
	"context"
	"errors"
)

var ErrRunNotFound = errors.New("run not found")

// Store archives finished evolution runs. Implementations are safe for
// concurrent use once Init has returned.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	// ListRuns returns summaries ordered newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)
	DeleteRun(ctx context.Context, id string) error
}

package sweep

import (
	"context"
	"log/slog"
	"time"

	"stayhaven/internal/repository"
)

const defaultBatchSize = 200

// Pass describes one reconciliation sweep: select the due items, then stage
// each item's writes into a batch that commits atomically per item.
type Pass[T any] struct {
	Name  string
	Limit int

	Select  func(ctx context.Context, now time.Time, limit int) ([]T, error)
	Process func(ctx context.Context, b *repository.Batch, item T, now time.Time) error
}

// Run executes one pass. Each item gets its own batch and its own commit, so
// a single contested or broken item never stalls the rest of the sweep; its
// failure is logged and the loop moves on. Returns how many items committed.
func Run[T any](ctx context.Context, p Pass[T], committer *repository.Committer, log *slog.Logger) (int, error) {
	now := time.Now()

	limit := p.Limit
	if limit <= 0 {
		limit = defaultBatchSize
	}

	items, err := p.Select(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	done := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		b := repository.NewBatch()
		if err := p.Process(ctx, b, item, now); err != nil {
			log.Warn("sweep item skipped", "pass", p.Name, "error", err)
			continue
		}
		if err := committer.Commit(ctx, b); err != nil {
			log.Warn("sweep item commit failed", "pass", p.Name, "error", err)
			continue
		}
		done++
	}

	log.Info("sweep pass finished", "pass", p.Name, "selected", len(items), "committed", done)
	return done, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoRowsAffected is returned by guarded writes when the target row was not
// in the expected prior state. It aborts the whole batch, so a writer that
// lost a race observes the conflict instead of silently overwriting.
var ErrNoRowsAffected = errors.New("no rows affected")

// Batch collects document writes that must land as one atomic unit.
// Writes are staged as closures and executed in order inside one transaction.
type Batch struct {
	ops []func(tx *gorm.DB) error
}

func NewBatch() *Batch { return &Batch{} }

func (b *Batch) Add(op func(tx *gorm.DB) error) {
	b.ops = append(b.ops, op)
}

func (b *Batch) Len() int { return len(b.ops) }

// Committer applies batches against the database.
type Committer struct {
	db *gorm.DB
}

func NewCommitter(db *gorm.DB) *Committer { return &Committer{db: db} }

// Commit runs every staged write inside a single transaction. If any write
// fails, none of them persist.
func (c *Committer) Commit(ctx context.Context, b *Batch) error {
	if b == nil || len(b.ops) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range b.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

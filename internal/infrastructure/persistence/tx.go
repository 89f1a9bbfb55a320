package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"skinvault/internal/domain"
)

var errCommit = errors.New("commit failed")

type store struct {
	db           *sqlx.DB
	queryTimeout time.Duration
}

// bounded limits a single statement or transaction to the query timeout.
func (s store) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.queryTimeout)
}

// withTx runs fn in a transaction. A commit failure wraps errCommit.
func (s store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Internal(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.Internal(fmt.Errorf("%w; rollback: %w", err, rbErr), "transaction failed")
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.Internal(fmt.Errorf("%w: %w", errCommit, err), "failed to commit")
	}

	return nil
}

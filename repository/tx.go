package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultTxAttempts = 5
	defaultTxBackoff  = 20 * time.Millisecond
)

// Transactor runs a unit of work in a database transaction and re-runs the
// whole body when it fails with a retryable conflict.
type Transactor struct {
	DB          *gorm.DB
	MaxAttempts int
	Backoff     time.Duration
}

func NewTransactor(db *gorm.DB, maxAttempts int) *Transactor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTxAttempts
	}
	return &Transactor{DB: db, MaxAttempts: maxAttempts, Backoff: defaultTxBackoff}
}

func (t *Transactor) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= t.MaxAttempts; attempt++ {
		err = t.DB.WithContext(ctx).Transaction(fn)
		if err == nil || !retryable(err) {
			return err
		}
		slog.Debug("transaction conflict, retrying", "attempt", attempt, "err", err)

		if attempt < t.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.Backoff * time.Duration(attempt)):
			}
		}
	}
	return err
}

func retryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey)
}

package storage

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Transaction runs fn in a transaction bounded by timeout (no bound when
// timeout <= 0). fn's error, a panic or the deadline roll everything back.
func Transaction(ctx context.Context, db *gorm.DB, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.WithContext(ctx).Transaction(fn)
}

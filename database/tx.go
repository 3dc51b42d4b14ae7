package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Transaction runs fn inside a transaction. Any error returned by fn, or a
// panic, rolls the transaction back.
func Transaction(ctx context.Context, db *DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}

	return db.RunInTx(ctx, nil, fn)
}

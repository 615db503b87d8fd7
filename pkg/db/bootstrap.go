package db

import (
	"context"
	"fmt"
)

// NeedsBootstrap reports whether the database has no settings row yet.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count settings: %w", err)
	}
	return count == 0, nil
}

// Bootstrap seeds the default settings row. It is a no-op when settings
// already exist.
func (db *DB) Bootstrap(ctx context.Context) error {
	needed, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return err
	}
	if !needed {
		return nil
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO settings (id, host, port) VALUES (1, '0.0.0.0', 8080)",
	)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

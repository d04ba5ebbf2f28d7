package postgres

import (
	"context"
	"fmt"
)

// migrationLockKey clave del advisory lock que serializa migraciones concurrentes.
const migrationLockKey int64 = 7_311_041_977

const migrationLockSQL = `SELECT pg_advisory_xact_lock($1)`

// schemaStatements crea el esquema del ledger; cada sentencia es idempotente.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id         BIGSERIAL PRIMARY KEY,
		sku        TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		unit       TEXT NOT NULL DEFAULT 'pcs',
		min_qty    BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT date_trunc('second', now()),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT date_trunc('second', now())
	)`,
	`CREATE TABLE IF NOT EXISTS stock_moves (
		id         BIGSERIAL PRIMARY KEY,
		item_id    BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		change_qty INTEGER NOT NULL CHECK (change_qty <> 0),
		reason     TEXT NOT NULL DEFAULT '',
		ref        TEXT NOT NULL DEFAULT '',
		at         TIMESTAMPTZ NOT NULL DEFAULT date_trunc('second', now())
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_sku ON items(sku)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_moves_item_id_at ON stock_moves(item_id, at)`,
}

// Migrate aplica el esquema dentro de una transacción. Es seguro ejecutarlo en cada arranque.
func Migrate(ctx context.Context, db TxBeginner) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx, migrationLockSQL, migrationLockKey); err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	committed = true
	return nil
}

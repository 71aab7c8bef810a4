package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Storefront ledger (SQLite).
var Migrations = migrate.NewGroup("storefront")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_storefront_processed_transactions",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS storefront_processed_transactions (
    id          TEXT PRIMARY KEY,
    txn_id      TEXT NOT NULL,
    product_id  TEXT NOT NULL DEFAULT '',
    grant_kind  TEXT NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL DEFAULT 0,
    recorded_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_storefront_processed_txn ON storefront_processed_transactions (txn_id);
CREATE INDEX IF NOT EXISTS idx_storefront_processed_product ON storefront_processed_transactions (product_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS storefront_processed_transactions`)
				return err
			},
		},
	)
}

package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
	"github.com/jain13abhi/dockfinity-costing-app/internal/store"
)

// Config contains the values required by startup seed.
type Config struct {
	DemoItem bool
	Now      func() time.Time
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSettings(ctx, tx, now(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if cfg.DemoItem {
		if err := ensureDemoItem(ctx, tx, now(), &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSettings(ctx context.Context, tx *sql.Tx, now time.Time, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM settings WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check settings existence: %w", err)
	}
	if exists {
		return nil
	}

	s := costing.DefaultSettings()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, circle_base_rate, circle_add_per_kg, circle_extra_add_per_kg, bag_standard_kg, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
	`, s.CircleBaseRate, s.CircleAddPerKg, s.CircleExtraAddPerKg, s.BagStandardKg, now.UTC().Format(store.TimeLayout)); err != nil {
		return fmt.Errorf("insert settings singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureDemoItem(ctx context.Context, tx *sql.Tx, now time.Time, stats *Stats) error {
	it := costing.DefaultItem()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE name = ? LIMIT 1)`, it.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check demo item existence: %w", err)
	}
	if exists {
		return nil
	}

	it.ID = store.NewID()
	it.CreatedAt, it.UpdatedAt = now.UTC(), now.UTC()
	spec, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal demo item: %w", err)
	}

	stamp := now.UTC().Format(store.TimeLayout)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO items (id, name, spec_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, it.ID, it.Name, string(spec), stamp, stamp); err != nil {
		return fmt.Errorf("insert demo item: %w", err)
	}
	stats.Inserts++
	return nil
}

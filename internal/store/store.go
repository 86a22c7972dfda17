package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// TimeLayout is fixed-width so stored timestamps sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists items, the settings singleton and computed results.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Store over an already migrated database.
func New(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

// NewID returns a fresh item identifier.
func NewID() string {
	return uuid.NewString()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", raw, err)
	}
	return t, nil
}

// GetSettings returns the settings singleton.
func (s *Store) GetSettings(ctx context.Context) (costing.AppSettings, error) {
	var st costing.AppSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT circle_base_rate, circle_add_per_kg, circle_extra_add_per_kg, bag_standard_kg
		FROM settings
		WHERE id = 1
	`).Scan(&st.CircleBaseRate, &st.CircleAddPerKg, &st.CircleExtraAddPerKg, &st.BagStandardKg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return costing.AppSettings{}, fmt.Errorf("settings singleton: %w", ErrNotFound)
		}
		return costing.AppSettings{}, fmt.Errorf("query settings: %w", err)
	}
	return st, nil
}

// UpdateSettings writes the settings singleton, creating it if needed.
func (s *Store) UpdateSettings(ctx context.Context, st costing.AppSettings) error {
	return upsertSettings(ctx, s.db, st, s.now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertSettings(ctx context.Context, db execer, st costing.AppSettings, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (id, circle_base_rate, circle_add_per_kg, circle_extra_add_per_kg, bag_standard_kg, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			circle_base_rate = excluded.circle_base_rate,
			circle_add_per_kg = excluded.circle_add_per_kg,
			circle_extra_add_per_kg = excluded.circle_extra_add_per_kg,
			bag_standard_kg = excluded.bag_standard_kg,
			updated_at = excluded.updated_at
	`, st.CircleBaseRate, st.CircleAddPerKg, st.CircleExtraAddPerKg, st.BagStandardKg, formatTime(at))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// CreateItem stores a new item. An empty ID is replaced with a fresh one.
func (s *Store) CreateItem(ctx context.Context, it costing.Item) (costing.Item, error) {
	if it.ID == "" {
		it.ID = NewID()
	}
	now := s.now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now
	if err := insertItem(ctx, s.db, it); err != nil {
		return costing.Item{}, err
	}
	s.logger.Debug("item created", zap.String("item_id", it.ID), zap.String("name", it.Name))
	return it, nil
}

func insertItem(ctx context.Context, db execer, it costing.Item) error {
	spec, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", it.ID, err)
	}
	if _, err := db.ExecContext(ctx, `
		INSERT INTO items (id, name, spec_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, it.ID, strings.TrimSpace(it.Name), string(spec), formatTime(it.CreatedAt), formatTime(it.UpdatedAt)); err != nil {
		return fmt.Errorf("insert item %s: %w", it.ID, err)
	}
	return nil
}

// GetItem loads one item by id.
func (s *Store) GetItem(ctx context.Context, id string) (costing.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, spec_json, created_at, updated_at
		FROM items
		WHERE id = ?
	`, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return costing.Item{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		return costing.Item{}, err
	}
	return it, nil
}

// likeEscaper makes LIKE wildcards in a search query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListItems returns items whose name contains query, newest first.
// An empty query lists everything.
func (s *Store) ListItems(ctx context.Context, query string) ([]costing.Item, error) {
	query = strings.TrimSpace(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, spec_json, created_at, updated_at
		FROM items
		WHERE (? = '' OR name LIKE ? ESCAPE '\')
		ORDER BY created_at DESC, id DESC
	`, query, "%"+likeEscaper.Replace(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]costing.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (costing.Item, error) {
	var (
		id, name, spec         string
		createdRaw, updatedRaw string
	)
	if err := row.Scan(&id, &name, &spec, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return costing.Item{}, err
		}
		return costing.Item{}, fmt.Errorf("scan item: %w", err)
	}

	var it costing.Item
	if err := json.Unmarshal([]byte(spec), &it); err != nil {
		return costing.Item{}, fmt.Errorf("decode item %s: %w", id, err)
	}
	created, err := parseTime(createdRaw)
	if err != nil {
		return costing.Item{}, err
	}
	updated, err := parseTime(updatedRaw)
	if err != nil {
		return costing.Item{}, err
	}
	it.ID, it.Name, it.CreatedAt, it.UpdatedAt = id, name, created, updated
	return it, nil
}

// UpdateItem replaces the stored item with the same id. The stored result
// snapshot is dropped because it no longer matches the inputs.
func (s *Store) UpdateItem(ctx context.Context, it costing.Item) (costing.Item, error) {
	current, err := s.GetItem(ctx, it.ID)
	if err != nil {
		return costing.Item{}, err
	}
	it.CreatedAt = current.CreatedAt
	it.UpdatedAt = s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return costing.Item{}, fmt.Errorf("begin update item transaction: %w", err)
	}
	if err := updateItem(ctx, tx, it); err != nil {
		_ = tx.Rollback()
		return costing.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return costing.Item{}, fmt.Errorf("commit update item transaction: %w", err)
	}
	return it, nil
}

func updateItem(ctx context.Context, tx *sql.Tx, it costing.Item) error {
	spec, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", it.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE items
		SET name = ?, spec_json = ?, updated_at = ?
		WHERE id = ?
	`, strings.TrimSpace(it.Name), string(spec), formatTime(it.UpdatedAt), it.ID); err != nil {
		return fmt.Errorf("update item %s: %w", it.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE item_id = ?`, it.ID); err != nil {
		return fmt.Errorf("drop stale result %s: %w", it.ID, err)
	}
	return nil
}

// UpsertStats counts the rows written by UpsertItems.
type UpsertStats struct {
	Created int
	Updated int
}

// UpsertItems updates every item whose id is already stored and creates the
// rest, in a single transaction. Nothing is written if any item fails.
func (s *Store) UpsertItems(ctx context.Context, items []costing.Item) (UpsertStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UpsertStats{}, fmt.Errorf("begin upsert transaction: %w", err)
	}

	now := s.now().UTC()
	stats, err := upsertItems(ctx, tx, items, now)
	if err != nil {
		_ = tx.Rollback()
		return UpsertStats{}, err
	}
	if err := tx.Commit(); err != nil {
		return UpsertStats{}, fmt.Errorf("commit upsert transaction: %w", err)
	}
	s.logger.Info("items upserted", zap.Int("created", stats.Created), zap.Int("updated", stats.Updated))
	return stats, nil
}

func upsertItems(ctx context.Context, tx *sql.Tx, items []costing.Item, now time.Time) (UpsertStats, error) {
	var stats UpsertStats
	for _, it := range items {
		if it.ID != "" {
			var createdRaw string
			err := tx.QueryRowContext(ctx, `SELECT created_at FROM items WHERE id = ?`, it.ID).Scan(&createdRaw)
			switch {
			case err == nil:
				created, err := parseTime(createdRaw)
				if err != nil {
					return UpsertStats{}, err
				}
				it.CreatedAt, it.UpdatedAt = created, now
				if err := updateItem(ctx, tx, it); err != nil {
					return UpsertStats{}, err
				}
				stats.Updated++
				continue
			case !errors.Is(err, sql.ErrNoRows):
				return UpsertStats{}, fmt.Errorf("look up item %s: %w", it.ID, err)
			}
		} else {
			it.ID = NewID()
		}
		it.CreatedAt, it.UpdatedAt = now, now
		if err := insertItem(ctx, tx, it); err != nil {
			return UpsertStats{}, err
		}
		stats.Created++
	}
	return stats, nil
}

// DeleteItem removes an item and its stored result.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveResult stores the latest result snapshot for its item.
func (s *Store) SaveResult(ctx context.Context, res costing.CalcResult) error {
	if res.ItemID == "" {
		return fmt.Errorf("save result: missing item id")
	}
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result %s: %w", res.ItemID, err)
	}
	computedAt := res.ComputedAt
	if computedAt.IsZero() {
		computedAt = s.now()
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO results (item_id, result_json, per_kg_rate, per_pc_rate, computed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			result_json = excluded.result_json,
			per_kg_rate = excluded.per_kg_rate,
			per_pc_rate = excluded.per_pc_rate,
			computed_at = excluded.computed_at
	`, res.ItemID, string(body), res.PerKgRate, res.PerPcRate, formatTime(computedAt)); err != nil {
		return fmt.Errorf("upsert result %s: %w", res.ItemID, err)
	}
	return nil
}

// GetResult reads the stored snapshot without recalculating.
func (s *Store) GetResult(ctx context.Context, itemID string) (costing.CalcResult, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM results WHERE item_id = ?`, itemID).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return costing.CalcResult{}, fmt.Errorf("result for item %s: %w", itemID, ErrNotFound)
		}
		return costing.CalcResult{}, fmt.Errorf("query result %s: %w", itemID, err)
	}
	var res costing.CalcResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return costing.CalcResult{}, fmt.Errorf("decode result %s: %w", itemID, err)
	}
	return res, nil
}

// ReplaceAll swaps every item and the settings for the given ones in a single
// transaction. Stored results are discarded.
func (s *Store) ReplaceAll(ctx context.Context, st costing.AppSettings, items []costing.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}

	now := s.now().UTC()
	if err := replaceAll(ctx, tx, st, items, now); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}
	s.logger.Info("store replaced", zap.Int("items", len(items)))
	return nil
}

func replaceAll(ctx context.Context, tx *sql.Tx, st costing.AppSettings, items []costing.Item, now time.Time) error {
	for _, q := range []string{`DELETE FROM results`, `DELETE FROM items`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}
	if err := upsertSettings(ctx, tx, st, now); err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == "" {
			it.ID = NewID()
		}
		if it.CreatedAt.IsZero() {
			it.CreatedAt = now
		}
		if it.UpdatedAt.IsZero() {
			it.UpdatedAt = now
		}
		if err := insertItem(ctx, tx, it); err != nil {
			return err
		}
	}
	return nil
}

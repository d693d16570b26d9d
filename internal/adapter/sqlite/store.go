// Package sqlite stores matched assessments in a SQLite database so runs can
// be queried and compared after the CSV reports are handed off.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/culvert-return-periods/internal/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const schema = `CREATE TABLE IF NOT EXISTS assessments (
	run_id          TEXT    NOT NULL,
	position        INTEGER NOT NULL,
	assessed_at     TEXT    NOT NULL,
	barrier_id      TEXT    NOT NULL,
	naacc_id        INTEGER NOT NULL,
	lat             REAL    NOT NULL,
	long            REAL    NOT NULL,
	capacity        REAL    NOT NULL,
	culvert_area    REAL    NOT NULL,
	current_return  INTEGER NOT NULL,
	future_return   INTEGER NOT NULL,
	ws_area_sqkm    REAL    NOT NULL,
	ws_tc_hr        REAL    NOT NULL,
	ws_cn           REAL    NOT NULL,
	culvert_count   INTEGER NOT NULL,
	comments        TEXT    NOT NULL,
	PRIMARY KEY (run_id, position)
)`

const insertAssessment = `INSERT OR REPLACE INTO assessments (
	run_id, position, assessed_at, barrier_id, naacc_id, lat, long, capacity,
	culvert_area, current_return, future_return, ws_area_sqkm, ws_tc_hr, ws_cn,
	culvert_count, comments
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Store writes assessments to the assessments table.
// It implements pipeline.BatchLoader.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and ensures the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create assessments table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Name identifies the sink in logs and metrics.
func (s *Store) Name() string { return "sqlite" }

// LoadBatch inserts the matched assessments of a run in one transaction.
// Re-loading the same run replaces its rows.
func (s *Store) LoadBatch(ctx context.Context, run domain.Run, assessments []domain.Assessment) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertAssessment)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	assessedAt := run.StartedAt.UTC().Format(time.RFC3339)
	for _, a := range assessments {
		if !a.Matched {
			continue
		}
		c := a.Culvert
		if _, err := stmt.ExecContext(ctx,
			run.ID, a.Position, assessedAt, c.BarrierID, c.NAACCID, c.Lat, c.Long, c.Capacity,
			c.CulvertArea, int(a.CurrentReturn), int(a.FutureReturn),
			a.Watershed.AreaSqKm, a.Watershed.TcHours, a.Watershed.CurveNumber,
			a.CulvertCount, c.Comments,
		); err != nil {
			return fmt.Errorf("insert assessment %s: %w", c.BarrierID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// StoredReturn is the persisted classification of one culvert.
type StoredReturn struct {
	BarrierID     string
	CurrentReturn domain.ReturnPeriod
	FutureReturn  domain.ReturnPeriod
}

// RunReturns returns the stored return periods of a run in input order.
func (s *Store) RunReturns(ctx context.Context, runID string) ([]StoredReturn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT barrier_id, current_return, future_return FROM assessments WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("select assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredReturn
	for rows.Next() {
		var r StoredReturn
		if err := rows.Scan(&r.BarrierID, &r.CurrentReturn, &r.FutureReturn); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	return s.db.Close()
}

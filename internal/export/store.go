// Package export writes computed period reports into a SQLite file that BI
// tools can query. The engine never reads it back.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pulse-analytics/internal/metrics"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InitSchema() error {
	ddl := `
CREATE TABLE IF NOT EXISTS reports (
  period TEXT PRIMARY KEY,
  dataset_id TEXT NOT NULL,
  total_updates INTEGER NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS region_summaries (
  period TEXT NOT NULL,
  rank INTEGER NOT NULL,              -- position in total-descending order
  region TEXT NOT NULL,
  child INTEGER NOT NULL,
  youth INTEGER NOT NULL,
  adult INTEGER NOT NULL,
  total INTEGER NOT NULL,
  dominant_bracket TEXT NOT NULL,
  intensity TEXT NOT NULL,
  PRIMARY KEY(period, rank),
  FOREIGN KEY(period) REFERENCES reports(period) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS subregion_summaries (
  period TEXT NOT NULL,
  region TEXT NOT NULL,
  seq INTEGER NOT NULL,               -- input order within the region
  sub_region TEXT NOT NULL,
  child INTEGER NOT NULL,
  youth INTEGER NOT NULL,
  adult INTEGER NOT NULL,
  total INTEGER NOT NULL,
  dominant_bracket TEXT NOT NULL,
  intensity TEXT NOT NULL,
  PRIMARY KEY(period, region, seq),
  FOREIGN KEY(period) REFERENCES reports(period) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS alerts (
  period TEXT NOT NULL,
  seq INTEGER NOT NULL,
  region TEXT NOT NULL,
  sub_region TEXT NOT NULL,
  kind TEXT NOT NULL,
  severity TEXT NOT NULL,
  share REAL NOT NULL,
  message TEXT NOT NULL,
  PRIMARY KEY(period, seq),
  FOREIGN KEY(period) REFERENCES reports(period) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS recommendations (
  period TEXT NOT NULL,
  seq INTEGER NOT NULL,
  region TEXT NOT NULL,
  sub_region TEXT NOT NULL,
  total INTEGER NOT NULL,
  multiplier REAL NOT NULL,
  severity TEXT NOT NULL,
  reasons TEXT NOT NULL,              -- JSON array
  actions TEXT NOT NULL,              -- JSON array
  expected_impact TEXT NOT NULL,
  PRIMARY KEY(period, seq),
  FOREIGN KEY(period) REFERENCES reports(period) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS state (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := s.db.Exec(ddl)
	return err
}

// SaveReport replaces every row stored for r.Period in one transaction.
func (s *Store) SaveReport(ctx context.Context, r metrics.Report) error {
	if r.Period == "" {
		return fmt.Errorf("report has no period")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE period=?`, r.Period); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO reports(period, dataset_id, total_updates, created_at)
VALUES(?,?,?,?)
`, r.Period, r.DatasetID, r.Overview.TotalUpdates, time.Now().Format(time.RFC3339)); err != nil {
		return err
	}

	regStmt, err := tx.PrepareContext(ctx, `
INSERT INTO region_summaries(period, rank, region, child, youth, adult, total, dominant_bracket, intensity)
VALUES(?,?,?,?,?,?,?,?,?)
`)
	if err != nil {
		return err
	}
	defer regStmt.Close()
	subStmt, err := tx.PrepareContext(ctx, `
INSERT INTO subregion_summaries(period, region, seq, sub_region, child, youth, adult, total, dominant_bracket, intensity)
VALUES(?,?,?,?,?,?,?,?,?,?)
`)
	if err != nil {
		return err
	}
	defer subStmt.Close()

	for i, reg := range r.Regions {
		if _, err := regStmt.ExecContext(ctx, r.Period, i+1, reg.Region, reg.Child, reg.Youth, reg.Adult, reg.Total, string(reg.Dominant), string(reg.Intensity)); err != nil {
			return fmt.Errorf("insert region %s: %w", reg.Region, err)
		}
		for j, sub := range reg.SubRegions {
			if _, err := subStmt.ExecContext(ctx, r.Period, reg.Region, j, sub.SubRegion, sub.Child, sub.Youth, sub.Adult, sub.Total, string(sub.Dominant), string(sub.Intensity)); err != nil {
				return fmt.Errorf("insert sub-region %s/%s: %w", reg.Region, sub.SubRegion, err)
			}
		}
	}

	for i, a := range r.Alerts {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO alerts(period, seq, region, sub_region, kind, severity, share, message)
VALUES(?,?,?,?,?,?,?,?)
`, r.Period, i, a.Region, a.SubRegion, string(a.Kind), string(a.Severity), a.Share, a.Message); err != nil {
			return err
		}
	}

	for i, rec := range r.Recommendations {
		reasons, _ := json.Marshal(rec.Reasons)
		actions, _ := json.Marshal(rec.Actions)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO recommendations(period, seq, region, sub_region, total, multiplier, severity, reasons, actions, expected_impact)
VALUES(?,?,?,?,?,?,?,?,?,?)
`, r.Period, i, rec.Region, rec.SubRegion, rec.Total, rec.Multiplier, string(rec.Severity), string(reasons), string(actions), rec.ExpectedImpact); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReportPeriods lists exported periods, newest first.
func (s *Store) ReportPeriods(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT period FROM reports ORDER BY period DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RegionTotals returns region -> total for an exported period, in rank order.
func (s *Store) RegionTotals(ctx context.Context, period string) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT rank, region, total, intensity
FROM region_summaries
WHERE period=?
ORDER BY rank
`, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []map[string]any
	for rows.Next() {
		var rank, total int
		var region, intensity string
		if err := rows.Scan(&rank, &region, &total, &intensity); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{"rank": rank, "region": region, "total": total, "intensity": intensity})
	}
	return out, rows.Err()
}

func (s *Store) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO state(key, value) VALUES(?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, key, value)
	return err
}

func (s *Store) GetState(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key=?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

func (s *Store) DB() *sql.DB { return s.db }

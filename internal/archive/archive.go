// Package archive caches fetched index data in a local SQLite database so
// repeated requests for the same interval do not hit the upstream service.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	parameter TEXT NOT NULL,
	ts        INTEGER NOT NULL,
	value     REAL,
	PRIMARY KEY (parameter, ts)
);
CREATE INDEX IF NOT EXISTS idx_samples_param_ts ON samples (parameter, ts);
`

// Archive is a local store of hourly samples keyed by parameter name and
// Unix timestamp. NULL values represent missing (NaN) samples.
type Archive struct {
	db   *sql.DB
	path string
}

// Open opens or creates the archive database at path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	return &Archive{db: db, path: path}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Store writes a series under the given parameter name, replacing any
// samples already present at the same timestamps.
func (a *Archive) Store(ctx context.Context, parameter string, s *timeseries.Series) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid series for %s: %w", parameter, err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO samples (parameter, ts, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range s.Times {
		var v interface{}
		if !math.IsNaN(s.Values[i]) {
			v = s.Values[i]
		}
		if _, err := stmt.ExecContext(ctx, parameter, t.Unix(), v); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}
	return tx.Commit()
}

// Load reads all samples for parameter in the half-open range [start, end),
// in time order. Missing stored values come back as NaN. An empty result is
// not an error.
func (a *Archive) Load(ctx context.Context, parameter string, start, end time.Time) (*timeseries.Series, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT ts, value FROM samples WHERE parameter = ? AND ts >= ? AND ts < ? ORDER BY ts`,
		parameter, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var s timeseries.Series
	for rows.Next() {
		var ts int64
		var v sql.NullFloat64
		if err := rows.Scan(&ts, &v); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		s.Times = append(s.Times, time.Unix(ts, 0).UTC())
		if v.Valid {
			s.Values = append(s.Values, v.Float64)
		} else {
			s.Values = append(s.Values, math.NaN())
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return &s, nil
}

// Coverage reports whether the archive holds a sample for every whole hour
// in [start, end).
func (a *Archive) Coverage(ctx context.Context, parameter string, start, end time.Time) (bool, error) {
	var count int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM samples WHERE parameter = ? AND ts >= ? AND ts < ?`,
		parameter, start.Unix(), end.Unix()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count samples: %w", err)
	}
	want := int(end.Sub(start) / time.Hour)
	return count >= want, nil
}

// Parameters lists the distinct parameter names present in the archive.
func (a *Archive) Parameters(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT DISTINCT parameter FROM samples ORDER BY parameter`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

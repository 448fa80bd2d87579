package store

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/agrovision/cropcast/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS observations (
	date  TEXT NOT NULL,
	crop  TEXT NOT NULL,
	city  TEXT NOT NULL,
	price REAL,
	PRIMARY KEY (date, crop, city)
);

CREATE TABLE IF NOT EXISTS prediction_log (
	id             TEXT PRIMARY KEY,
	crop           TEXT NOT NULL,
	city           TEXT NOT NULL,
	planting_date  TEXT NOT NULL,
	target_date    TEXT NOT NULL,
	price          REAL,
	previous_price REAL,
	status         TEXT NOT NULL,
	detail         TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_observations_crop_city ON observations(crop, city);
CREATE INDEX IF NOT EXISTS idx_prediction_log_crop_city ON prediction_log(crop, city);
CREATE INDEX IF NOT EXISTS idx_prediction_log_created_at ON prediction_log(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const dateLayout = "2006-01-02"

// ReplaceObservations replaces the consolidated table wholesale inside one
// transaction. Missing prices are stored as NULL.
func (s *SQLiteStore) ReplaceObservations(ctx context.Context, rows []model.PriceObservation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return eris.Wrap(err, "sqlite: clear observations")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (date, crop, city, price) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		var price any
		if r.HasPrice() {
			price = r.Price
		}
		if _, err := stmt.ExecContext(ctx, r.Date.Format(dateLayout), r.Crop, r.City, price); err != nil {
			return eris.Wrapf(err, "sqlite: insert observation %s/%s/%s",
				r.Date.Format(dateLayout), r.Crop, r.City)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit observations")
}

// LoadObservations reads the full consolidated table. NULL prices come back
// as NaN for the cleaner to handle.
func (s *SQLiteStore) LoadObservations(ctx context.Context) ([]model.PriceObservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, crop, city, price FROM observations ORDER BY crop, city, date`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load observations")
	}
	defer rows.Close()

	var out []model.PriceObservation
	for rows.Next() {
		var dateStr string
		var crop, city string
		var price sql.NullFloat64
		if err := rows.Scan(&dateStr, &crop, &city, &price); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan observation")
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse observation date %q", dateStr)
		}
		p := math.NaN()
		if price.Valid {
			p = price.Float64
		}
		out = append(out, model.PriceObservation{Date: date, Crop: crop, City: city, Price: p})
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load observations iterate")
}

func (s *SQLiteStore) CountObservations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count observations")
}

// LogPrediction appends one request to the audit log and returns its ID.
func (s *SQLiteStore) LogPrediction(ctx context.Context, entry model.AuditEntry) (string, error) {
	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prediction_log
		 (id, crop, city, planting_date, target_date, price, previous_price, status, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, entry.Crop, entry.City,
		entry.PlantingDate.Format(dateLayout), entry.TargetDate.Format(dateLayout),
		entry.Price, entry.PreviousPrice, string(entry.Status), entry.Detail, createdAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert prediction log")
	}
	return id, nil
}

// ListPredictions returns audit entries newest first.
func (s *SQLiteStore) ListPredictions(ctx context.Context, filter AuditFilter) ([]model.AuditEntry, error) {
	query := `SELECT id, crop, city, planting_date, target_date, price, previous_price, status, detail, created_at
	          FROM prediction_log WHERE 1=1`
	var args []any

	if filter.Crop != "" {
		query += ` AND crop = ?`
		args = append(args, filter.Crop)
	}
	if filter.City != "" {
		query += ` AND city = ?`
		args = append(args, filter.City)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list predictions")
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var plantingStr, targetStr string
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.Crop, &e.City, &plantingStr, &targetStr,
			&e.Price, &e.PreviousPrice, &e.Status, &detail, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan prediction log")
		}
		if e.PlantingDate, err = time.Parse(dateLayout, plantingStr); err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse planting date %q", plantingStr)
		}
		if e.TargetDate, err = time.Parse(dateLayout, targetStr); err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse target date %q", targetStr)
		}
		e.Detail = detail.String
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list predictions iterate")
}

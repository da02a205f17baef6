package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/signup-desk/internal/domain"
)

//go:embed schema.sql
var schema string

// MemoryDSN keeps the database inside the process.
const MemoryDSN = ":memory:"

type Repository struct {
	db *sql.DB
}

// New opens the SQLite database at dsn and applies the schema. An in-memory
// database is pinned to one connection, otherwise every pooled connection
// would see its own empty database.
func New(dsn string) (*Repository, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// ── Records ───────────────────────────────────────────────────────────────────

func (r *Repository) Append(ctx context.Context, rec *domain.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM records WHERE form=?`, rec.Form).Scan(&seq); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO records (form, seq, created_at) VALUES (?,?,?)`,
		rec.Form, seq, rec.Timestamp.UTC())
	if err != nil {
		return err
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for field, value := range rec.Values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_values (record_id, field, value) VALUES (?,?,?)`,
			rowID, field, value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	rec.ID = seq
	return nil
}

func (r *Repository) List(ctx context.Context, form string) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.seq, r.created_at, v.field, v.value
		FROM records r
		LEFT JOIN record_values v ON v.record_id = r.id
		WHERE r.form=?
		ORDER BY r.seq`, form)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Record
	lastRowID := int64(-1)
	for rows.Next() {
		var (
			rowID        int64
			rec          domain.Record
			field, value sql.NullString
		)
		if err := rows.Scan(&rowID, &rec.ID, &rec.Timestamp, &field, &value); err != nil {
			return nil, err
		}
		if rowID != lastRowID {
			rec.Form = form
			rec.Values = domain.Values{}
			list = append(list, rec)
			lastRowID = rowID
		}
		if field.Valid {
			list[len(list)-1].Values[field.String] = value.String
		}
	}
	return list, rows.Err()
}

func (r *Repository) Count(ctx context.Context, form string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE form=?`, form).Scan(&n)
	return n, err
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func isMemory(dsn string) bool {
	return dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
}

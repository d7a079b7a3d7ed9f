package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// dialect captures the differences between the SQL backends.
type dialect struct {
	name        string
	driver      string
	numbered    bool // $1, $2 placeholders instead of ?
	createTable string
}

var sqliteDialect = &dialect{
	name:   "sqlite",
	driver: "sqlite",
	createTable: `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		source TEXT NOT NULL,
		workbook TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		strategy TEXT NOT NULL,
		dry_run INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		created INTEGER NOT NULL,
		updated INTEGER NOT NULL,
		deleted INTEGER NOT NULL
	)`,
}

var postgresDialect = &dialect{
	name:     "postgres",
	driver:   "pgx",
	numbered: true,
	createTable: `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		source TEXT NOT NULL,
		workbook TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		strategy TEXT NOT NULL,
		dry_run BOOLEAN NOT NULL,
		documents INTEGER NOT NULL,
		created INTEGER NOT NULL,
		updated INTEGER NOT NULL,
		deleted INTEGER NOT NULL
	)`,
}

// rebind rewrites ? placeholders for dialects that number them.
func (d *dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqlStore is a Store over database/sql.
type sqlStore struct {
	db      *sql.DB
	dialect *dialect
}

func openSQL(ctx context.Context, d *dialect, source string) (Store, error) {
	if d == sqliteDialect {
		if err := os.MkdirAll(filepath.Dir(source), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("mkdir", filepath.Dir(source), err)
		}
	}

	db, err := sql.Open(d.driver, source)
	if err != nil {
		return nil, errors.WrapResource("open", "history", d.name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("open", "history", d.name, err)
	}
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("migrate", "history", d.name, err)
	}
	return &sqlStore{db: db, dialect: d}, nil
}

const insertRun = `INSERT INTO runs
	(id, started_at, duration_ms, source, workbook, output_dir, strategy, dry_run, documents, created, updated, deleted)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectRuns = `SELECT id, started_at, duration_ms, source, workbook, output_dir, strategy, dry_run, documents, created, updated, deleted
	FROM runs ORDER BY started_at DESC, id ASC`

func (s *sqlStore) Record(ctx context.Context, run Run) error {
	if err := validate(run); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(insertRun),
		run.ID,
		run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(),
		run.Source,
		run.Workbook,
		run.OutputDir,
		run.Strategy,
		run.DryRun,
		run.Documents,
		run.Created,
		run.Updated,
		run.Deleted,
	)
	if err != nil {
		return errors.WrapResource("record", "history", run.ID, err)
	}
	return nil
}

func (s *sqlStore) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectRuns
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, errors.WrapResource("list", "history", "", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  string
			durationMs int64
		)
		if err := rows.Scan(&r.ID, &startedAt, &durationMs, &r.Source, &r.Workbook, &r.OutputDir,
			&r.Strategy, &r.DryRun, &r.Documents, &r.Created, &r.Updated, &r.Deleted); err != nil {
			return nil, errors.WrapResource("scan", "history", "", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, errors.WrapParse("time", "history", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "history", "", err)
	}
	return runs, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

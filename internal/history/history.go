// Package history records every applied import so runs can be listed later.
// Runs are kept in SQLite by default, in Postgres when given a postgres DSN,
// or in memory.
package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Run is one recorded reconciliation.
type Run struct {
	ID        string        `json:"id" yaml:"id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Source    string        `json:"source" yaml:"source"`
	Workbook  string        `json:"workbook" yaml:"workbook"`
	OutputDir string        `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Strategy  string        `json:"strategy" yaml:"strategy"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Documents int           `json:"documents" yaml:"documents"`
	Created   int           `json:"created" yaml:"created"`
	Updated   int           `json:"updated" yaml:"updated"`
	Deleted   int           `json:"deleted" yaml:"deleted"`
}

// Store persists runs.
type Store interface {
	// Record saves a run. Recording the same ID twice is an error.
	Record(ctx context.Context, run Run) error

	// List returns up to limit runs, newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]Run, error)

	// Close releases the store.
	Close() error
}

// MemoryDSN selects the in-memory store.
const MemoryDSN = "memory"

// DefaultPath returns the default SQLite database location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ftbatch", "history.db")
	}
	return filepath.Join(home, ".ftbatch", "history.db")
}

// Open returns the store selected by dsn:
//
//	""                          SQLite at DefaultPath
//	"memory"                    in-memory
//	"postgres://…", "postgresql://…"  Postgres via pgx
//	"sqlite://path" or a path   SQLite at path
func Open(ctx context.Context, dsn string) (Store, error) {
	switch d := dialectFor(dsn); d {
	case nil:
		return NewMemory(), nil
	default:
		return openSQL(ctx, d, dataSource(dsn))
	}
}

// dialectFor returns the SQL dialect for dsn, or nil for the memory store.
func dialectFor(dsn string) *dialect {
	lower := strings.ToLower(dsn)
	switch {
	case lower == MemoryDSN:
		return nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return postgresDialect
	default:
		return sqliteDialect
	}
}

// dataSource strips the sqlite:// scheme and fills in the default path.
func dataSource(dsn string) string {
	if dsn == "" {
		return DefaultPath()
	}
	if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return rest
	}
	return dsn
}

func validate(run Run) error {
	if run.ID == "" {
		return errors.NewValidationError("id", "", "run id is required")
	}
	return nil
}

// Package sqlite loads every user table of a SQLite database file into a
// table store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/adapters/datasource"
	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// quoteIdentifier quotes a SQLite identifier, escaping embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Loader reads a SQLite database's tables.
type Loader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLoader opens the SQLite database at path (":memory:" works for
// tests). If logger is nil, a no-op logger is used.
func NewLoader(ctx context.Context, path string, logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Loader{db: db, logger: logger.Named("sqlite-loader")}, nil
}

// DB exposes the underlying handle so tests can create fixture tables.
func (l *Loader) DB() *sql.DB { return l.db }

// Name implements datasource.Loader.
func (l *Loader) Name() string { return "sqlite" }

// Close implements datasource.Loader.
func (l *Loader) Close() error { return l.db.Close() }

// Load discovers every table in sqlite_master and reads its full contents.
func (l *Loader) Load(ctx context.Context) (*store.Store, error) {
	const query = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	st := store.New()
	for _, name := range names {
		table, err := l.loadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := st.Add(table); err != nil {
			return nil, err
		}
	}

	l.logger.Info("sqlite load complete", zap.Int("tables", st.Len()))
	return st, nil
}

func (l *Loader) loadTable(ctx context.Context, name string) (*models.Table, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT * FROM "+quoteIdentifier(name))
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	defer rows.Close()
	return datasource.ScanTable(name, rows)
}

var _ datasource.Loader = (*Loader)(nil)

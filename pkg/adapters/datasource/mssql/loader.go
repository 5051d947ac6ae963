// Package mssql loads every user table of a SQL Server database into a
// table store via the sys catalog views.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // sqlserver driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/adapters/datasource"
	"github.com/ekaya-inc/databridge/pkg/config"
	"github.com/ekaya-inc/databridge/pkg/logging"
	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/retry"
	"github.com/ekaya-inc/databridge/pkg/store"
)

func buildConnectionString(cfg config.MSSQLConfig) string {
	query := url.Values{}
	query.Set("database", cfg.Database)
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// bracketIdentifier quotes a SQL Server identifier, escaping closing
// brackets.
func bracketIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// Loader reads a SQL Server database's user tables.
type Loader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLoader connects to SQL Server. If logger is nil, a no-op logger is
// used.
func NewLoader(ctx context.Context, cfg config.MSSQLConfig, logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	connStr := buildConnectionString(cfg)
	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlserver: %w", err)
	}
	if err := retry.Do(ctx, nil, func() error { return db.PingContext(ctx) }); err != nil {
		db.Close()
		logger.Error("sqlserver unreachable",
			zap.String("target", logging.SanitizeConnectionString(connStr)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping sqlserver: %w", err)
	}
	return &Loader{db: db, logger: logger.Named("mssql-loader")}, nil
}

// Name implements datasource.Loader.
func (l *Loader) Name() string { return "mssql" }

// Close implements datasource.Loader.
func (l *Loader) Close() error { return l.db.Close() }

// Load discovers every user table and reads its full contents.
func (l *Loader) Load(ctx context.Context) (*store.Store, error) {
	const query = `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(t.schema_id) AS table_schema,
	    t.name AS table_name
	FROM sys.tables t
	WHERE t.is_ms_shipped = 0
	ORDER BY table_schema, table_name`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	type ref struct{ schema, table string }
	var refs []ref
	for rows.Next() {
		var r ref
		if err := rows.Scan(&r.schema, &r.table); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	st := store.New()
	for _, r := range refs {
		table, err := l.loadTable(ctx, r.schema, r.table)
		if err != nil {
			return nil, err
		}
		if err := st.Add(table); err != nil {
			return nil, err
		}
	}

	l.logger.Info("mssql load complete", zap.Int("tables", st.Len()))
	return st, nil
}

func (l *Loader) loadTable(ctx context.Context, schema, name string) (*models.Table, error) {
	query := fmt.Sprintf("SELECT * FROM %s.%s", bracketIdentifier(schema), bracketIdentifier(name))
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read table %s.%s: %w", schema, name, err)
	}
	defer rows.Close()
	return datasource.ScanTable(name, rows)
}

var _ datasource.Loader = (*Loader)(nil)

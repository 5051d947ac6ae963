// Package postgres loads every base table of a PostgreSQL schema into a
// table store via the information_schema catalog.
package postgres

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/adapters/datasource"
	"github.com/ekaya-inc/databridge/pkg/config"
	"github.com/ekaya-inc/databridge/pkg/logging"
	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/retry"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// buildConnectionString builds a PostgreSQL URL with proper escaping.
// User-provided fields must be URL-escaped so special characters in
// passwords (@, /, #, ?) do not break URL parsing.
func buildConnectionString(cfg config.PostgresConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		url.QueryEscape(cfg.Database),
		sslMode,
	)
}

// qualifiedTableName returns a properly quoted "schema"."table" reference.
func qualifiedTableName(schemaName, tableName string) string {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	if schemaName == "" {
		return quotedTable
	}
	return pgx.Identifier{schemaName}.Sanitize() + "." + quotedTable
}

// Loader reads a PostgreSQL schema's base tables.
type Loader struct {
	cfg    config.PostgresConfig
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewLoader connects to PostgreSQL and returns a loader for the configured
// schema. If logger is nil, a no-op logger is used.
func NewLoader(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	connStr := buildConnectionString(cfg)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := retry.Do(ctx, nil, func() error { return pool.Ping(ctx) }); err != nil {
		pool.Close()
		logger.Error("postgres unreachable",
			zap.String("target", logging.SanitizeConnectionString(connStr)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Loader{cfg: cfg, pool: pool, logger: logger.Named("postgres-loader")}, nil
}

// Name implements datasource.Loader.
func (l *Loader) Name() string { return "postgres" }

// Close implements datasource.Loader.
func (l *Loader) Close() error {
	l.pool.Close()
	return nil
}

// Load discovers every base table in the configured schema and reads its
// full contents.
func (l *Loader) Load(ctx context.Context) (*store.Store, error) {
	names, err := l.tableNames(ctx)
	if err != nil {
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
		l.logger.Debug("loaded table",
			zap.String("table", name),
			zap.Int("rows", table.RowCount()))
	}

	l.logger.Info("postgres load complete",
		zap.String("schema", l.cfg.Schema),
		zap.Int("tables", st.Len()))
	return st, nil
}

// tableNames lists updatable base tables in the configured schema, which
// excludes views and system catalogs.
func (l *Loader) tableNames(ctx context.Context) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	rows, err := l.pool.Query(ctx, query, l.cfg.Schema)
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
	return names, rows.Err()
}

func (l *Loader) loadTable(ctx context.Context, name string) (*models.Table, error) {
	rows, err := l.pool.Query(ctx, "SELECT * FROM "+qualifiedTableName(l.cfg.Schema, name))
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	columns := make([]*models.Column, len(descs))
	for i, desc := range descs {
		columns[i] = &models.Column{Name: desc.Name}
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", name, err)
		}
		for i, v := range values {
			columns[i].Values = append(columns[i].Values, datasource.NormalizeValue(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	for _, col := range columns {
		col.Type = datasource.TypeFromValues(col.Values)
	}
	return models.NewTable(name, columns...)
}

var _ datasource.Loader = (*Loader)(nil)

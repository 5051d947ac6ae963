package datasource

import (
	"database/sql"
	"fmt"

	"github.com/ekaya-inc/databridge/pkg/models"
)

// ScanTable drains a database/sql result set into a table, normalizing
// driver values and tagging each column with its inferred value type.
// Shared by the loaders built on database/sql (SQL Server, SQLite).
func ScanTable(name string, rows *sql.Rows) (*models.Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", name, err)
	}

	columns := make([]*models.Column, len(names))
	for i, colName := range names {
		columns[i] = &models.Column{Name: colName}
	}

	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		for i, v := range values {
			columns[i].Values = append(columns[i].Values, NormalizeValue(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	for _, col := range columns {
		col.Type = TypeFromValues(col.Values)
	}
	return models.NewTable(name, columns...)
}

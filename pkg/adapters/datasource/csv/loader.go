// Package csv loads a directory of delimited files as a table store, one
// table per file with the filename stem as the table name.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/adapters/datasource"
	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// timeLayouts are tried in order when probing a column for datetime values.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// Loader reads *.csv files from a directory.
type Loader struct {
	dir       string
	delimiter rune
	logger    *zap.Logger
}

// NewLoader creates a CSV directory loader. If logger is nil, a no-op
// logger is used.
func NewLoader(dir string, delimiter rune, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, delimiter: delimiter, logger: logger.Named("csv-loader")}
}

// Name implements datasource.Loader.
func (l *Loader) Name() string { return "csv" }

// Close implements datasource.Loader. CSV files are read eagerly, so there
// is nothing to release.
func (l *Loader) Close() error { return nil }

// Load reads every *.csv file in the directory, in filename order.
func (l *Loader) Load(ctx context.Context) (*store.Store, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", l.dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	st := store.New()
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := l.loadFile(filepath.Join(l.dir, name))
		if err != nil {
			return nil, err
		}
		if err := st.Add(table); err != nil {
			return nil, err
		}
		l.logger.Debug("loaded table",
			zap.String("table", table.Name),
			zap.Int("rows", table.RowCount()),
			zap.Int("columns", len(table.Columns)))
	}

	l.logger.Info("csv load complete", zap.String("dir", l.dir), zap.Int("tables", st.Len()))
	return st, nil
}

func (l *Loader) loadFile(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = l.delimiter
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	header := records[0]
	rows := records[1:]
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	columns := make([]*models.Column, len(header))
	for i, colName := range header {
		raw := make([]string, len(rows))
		for j, row := range rows {
			raw[j] = row[i]
		}
		columns[i] = buildColumn(strings.TrimSpace(colName), raw)
	}
	return models.NewTable(name, columns...)
}

// buildColumn probes the raw cells top to bottom: the column becomes
// integer only if every non-empty cell parses as one, widening through
// float and datetime before falling back to string. Empty cells are nulls.
func buildColumn(name string, raw []string) *models.Column {
	col := &models.Column{Name: name, Type: probeType(raw)}
	col.Values = make([]any, len(raw))
	for i, cell := range raw {
		col.Values[i] = parseCell(cell, col.Type)
	}
	return col
}

func probeType(raw []string) models.ValueType {
	allInt, allFloat, allTime := true, true, true
	nonEmpty := 0
	for _, cell := range raw {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			allFloat = false
		}
		if _, ok := parseTime(cell); !ok {
			allTime = false
		}
	}
	switch {
	case nonEmpty == 0:
		return models.TypeString
	case allInt:
		return models.TypeInteger
	case allFloat:
		return models.TypeFloat
	case allTime:
		return models.TypeDatetime
	default:
		return models.TypeString
	}
}

func parseCell(cell string, vt models.ValueType) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	switch vt {
	case models.TypeInteger:
		n, _ := strconv.ParseInt(cell, 10, 64)
		return n
	case models.TypeFloat:
		f, _ := strconv.ParseFloat(cell, 64)
		return f
	case models.TypeDatetime:
		ts, _ := parseTime(cell)
		return ts
	default:
		return cell
	}
}

func parseTime(cell string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, cell, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

var _ datasource.Loader = (*Loader)(nil)

// Command databridge loads a table collection from a configured source,
// infers the relationships between its tables, and reports column profiles.
// With -merge it additionally executes a multi-table merge request and
// writes the combined result as CSV to stdout.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/databridge/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/databridge/pkg/adapters/datasource/csv"
	_ "github.com/ekaya-inc/databridge/pkg/adapters/datasource/mssql"
	_ "github.com/ekaya-inc/databridge/pkg/adapters/datasource/postgres"
	_ "github.com/ekaya-inc/databridge/pkg/adapters/datasource/sqlite"
	"github.com/ekaya-inc/databridge/pkg/catalog"
	"github.com/ekaya-inc/databridge/pkg/config"
	"github.com/ekaya-inc/databridge/pkg/inference"
	"github.com/ekaya-inc/databridge/pkg/merge"
	"github.com/ekaya-inc/databridge/pkg/models"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	mergePath := flag.String("merge", "", "path to a YAML merge request; result is written as CSV to stdout")
	showProfiles := flag.Bool("profiles", false, "print column profiles as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	loader, err := datasource.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to create loader", zap.Error(err))
	}
	defer loader.Close()

	st, err := loader.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load tables", zap.String("source", loader.Name()), zap.Error(err))
	}

	opts := []catalog.Option{catalog.WithLogger(logger)}
	if cfg.Inference.Mode == "name_match" {
		opts = append(opts, catalog.WithMode(catalog.ModeNameMatch))
	}
	var engineOpts []inference.Option
	if cfg.Inference.Threshold != inference.DefaultThreshold {
		engineOpts = append(engineOpts, inference.WithThreshold(cfg.Inference.Threshold))
	}
	if cfg.Inference.UniqueIgnoresNulls {
		engineOpts = append(engineOpts, inference.WithUniqueIgnoringNulls())
	}
	if len(engineOpts) > 0 {
		opts = append(opts, catalog.WithEngineOptions(engineOpts...))
	}

	cat := catalog.New(st, opts...)

	logger.Info("catalog ready",
		zap.Int("tables", st.Len()),
		zap.Int("relationships", cat.Relationships().Len()),
		zap.Int("warnings", len(cat.Warnings())))

	if *showProfiles {
		if err := printJSON(cat.Profiles()); err != nil {
			logger.Fatal("failed to print profiles", zap.Error(err))
		}
	}

	if *mergePath == "" {
		if err := printJSON(cat.Relationships().All()); err != nil {
			logger.Fatal("failed to print relationships", zap.Error(err))
		}
		return
	}

	selections, err := readMergeRequest(*mergePath)
	if err != nil {
		logger.Fatal("failed to read merge request", zap.Error(err))
	}

	result, diagnostics, err := cat.EasyMerge(selections)
	if err != nil {
		logger.Fatal("merge failed", zap.Error(err))
	}
	for _, d := range diagnostics {
		logger.Warn("merge diagnostic", zap.String("kind", string(d.Kind)), zap.String("message", d.Message))
	}

	if err := writeCSV(os.Stdout, result); err != nil {
		logger.Fatal("failed to write result", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func readMergeRequest(path string) ([]merge.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var selections []merge.Selection
	if err := yaml.Unmarshal(data, &selections); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return selections, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(f *os.File, t *models.Table) error {
	w := csv.NewWriter(f)
	if err := w.Write(t.ColumnNames()); err != nil {
		return err
	}
	for i := 0; i < t.RowCount(); i++ {
		row := t.Row(i)
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

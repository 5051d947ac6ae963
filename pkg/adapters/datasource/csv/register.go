package csv

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/adapters/datasource"
	"github.com/ekaya-inc/databridge/pkg/config"
)

func init() {
	datasource.Register("csv", func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datasource.Loader, error) {
		return NewLoader(cfg.CSV.Dir, rune(cfg.CSV.Delimiter[0]), logger), nil
	})
}

package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/adapters/datasource"
	"github.com/ekaya-inc/databridge/pkg/config"
)

func init() {
	datasource.Register("postgres", func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datasource.Loader, error) {
		return NewLoader(ctx, cfg.Postgres, logger)
	})
}

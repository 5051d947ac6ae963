// Package datasource defines the loader interface that reduces every
// concrete table source (CSV directory, PostgreSQL, SQL Server, SQLite) to
// the same in-memory store shape, plus the registry the loaders announce
// themselves through.
package datasource

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/config"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// Loader populates a table store from some external source.
type Loader interface {
	// Name identifies the loader type (csv, postgres, mssql, sqlite).
	Name() string

	// Load reads every table from the source into a fresh store.
	Load(ctx context.Context) (*store.Store, error)

	// Close releases any underlying connections.
	Close() error
}

// Factory creates a loader from configuration.
type Factory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Loader, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register is called by each loader package's init(). Safe for concurrent
// init() calls.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates the loader registered under cfg.Source.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Loader, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Source]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no loader registered for source %q", cfg.Source)
	}
	return factory(ctx, cfg, logger)
}

// Registered returns whether a loader exists for the named source.
func Registered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

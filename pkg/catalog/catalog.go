// Package catalog ties the table store, relationship inference, the table
// graph and the merge executor together behind a single facade with a
// read-mostly snapshot discipline: relationship updates build a new
// snapshot and swap in a freshly derived graph under a write lock, so
// concurrent path resolutions and merges always see a consistent pair.
package catalog

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/graph"
	"github.com/ekaya-inc/databridge/pkg/inference"
	"github.com/ekaya-inc/databridge/pkg/merge"
	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/profile"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// Mode selects the inference mode used when the catalog is built.
type Mode string

const (
	// ModeValueMatch infers relationships from subset-ratio statistics.
	ModeValueMatch Mode = "value_match"
	// ModeNameMatch emits a relationship for every identically-named
	// column pair across tables, without a value-overlap check.
	ModeNameMatch Mode = "name_match"
)

// Catalog is the entry point for relationship discovery, column profiling
// and multi-table merges over a loaded store.
type Catalog struct {
	mu       sync.RWMutex
	store    *store.Store
	engine   *inference.Engine
	sim      profile.NameSimilarity
	logger   *zap.Logger
	rels     models.RelationshipSet
	graph    *graph.Graph
	warnings []inference.Warning
}

type options struct {
	mode       Mode
	logger     *zap.Logger
	sim        profile.NameSimilarity
	engineOpts []inference.Option
}

// Option configures catalog construction.
type Option func(*options)

// WithMode selects the inference mode. The default is value-match.
func WithMode(mode Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithLogger sets the logger shared by the catalog's components.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNameSimilarity overrides the fuzzy matcher used by column profiling.
func WithNameSimilarity(sim profile.NameSimilarity) Option {
	return func(o *options) { o.sim = sim }
}

// WithEngineOptions forwards options to the inference engine.
func WithEngineOptions(opts ...inference.Option) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, opts...) }
}

// New builds a catalog over the store: inference runs once, the graph is
// derived from the resulting snapshot, and any inference warnings are kept
// for inspection.
func New(st *store.Store, opts ...Option) *Catalog {
	o := options{mode: ModeValueMatch, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	engine := inference.NewEngine(o.logger, o.engineOpts...)
	c := &Catalog{
		store:  st,
		engine: engine,
		sim:    o.sim,
		logger: o.logger.Named("catalog"),
	}

	switch o.mode {
	case ModeNameMatch:
		c.rels = engine.NameMapping(st)
	default:
		c.rels, c.warnings = engine.Infer(st)
	}
	c.graph = graph.New(c.rels)
	return c
}

// Store returns the underlying table store.
func (c *Catalog) Store() *store.Store {
	return c.store
}

// Relationships returns the current relationship snapshot.
func (c *Catalog) Relationships() models.RelationshipSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rels
}

// Warnings returns the warnings produced when the catalog was built.
func (c *Catalog) Warnings() []inference.Warning {
	return c.warnings
}

// AddRelationship records a manual correction: a relationship between the
// given columns with confidence 1.0. Both endpoints must exist in the store
// and must not name the same column.
func (c *Catalog) AddRelationship(fromTable, fromColumn, toTable, toColumn string) (models.Relationship, error) {
	if fromTable == toTable && fromColumn == toColumn {
		return models.Relationship{}, fmt.Errorf("relationship endpoints must differ")
	}
	for _, ref := range [][2]string{{fromTable, fromColumn}, {toTable, toColumn}} {
		t, err := c.store.Table(ref[0])
		if err != nil {
			return models.Relationship{}, err
		}
		if _, ok := t.Column(ref[1]); !ok {
			return models.Relationship{}, fmt.Errorf("table %q has no column %q", ref[0], ref[1])
		}
	}

	rel := models.Relationship{
		ID:         uuid.New(),
		FromTable:  fromTable,
		FromColumn: fromColumn,
		ToTable:    toTable,
		ToColumn:   toColumn,
		Confidence: 1.0,
		Method:     models.DetectionManual,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rels = c.rels.WithAdded(rel)
	c.graph = graph.New(c.rels)

	c.logger.Info("manual relationship added",
		zap.String("from", fromTable+"."+fromColumn),
		zap.String("to", toTable+"."+toColumn))
	return rel, nil
}

// RemoveRelationship deletes a relationship by ID and swaps in a rebuilt
// graph. Returns false if no relationship carries the ID.
func (c *Catalog) RemoveRelationship(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, removed := c.rels.Without(func(r models.Relationship) bool { return r.ID != id })
	if removed == 0 {
		return false
	}
	c.rels = next
	c.graph = graph.New(c.rels)
	return true
}

// RemoveColumnMappings deletes every relationship touching the named column
// on either side, the escape hatch for columns the inference mis-ranked.
// Returns the number of relationships removed.
func (c *Catalog) RemoveColumnMappings(column string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, removed := c.rels.Without(func(r models.Relationship) bool {
		return r.FromColumn != column && r.ToColumn != column
	})
	if removed == 0 {
		return 0
	}
	c.rels = next
	c.graph = graph.New(c.rels)
	c.logger.Info("column mappings removed",
		zap.String("column", column),
		zap.Int("removed", removed))
	return removed
}

// FindPath resolves the shortest relationship path between two tables.
func (c *Catalog) FindPath(start, end string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graph.FindPath(start, end)
}

// Profiles classifies every column in the store against the current
// relationship snapshot.
func (c *Catalog) Profiles() []models.ColumnProfile {
	c.mu.RLock()
	rels := c.rels
	c.mu.RUnlock()
	return profile.NewClassifier(rels, c.sim, c.logger).ProfileStore(c.store)
}

// ProfileTable classifies the columns of one table.
func (c *Catalog) ProfileTable(name string) ([]models.ColumnProfile, error) {
	t, err := c.store.Table(name)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	rels := c.rels
	c.mu.RUnlock()
	return profile.NewClassifier(rels, c.sim, c.logger).ProfileTable(t), nil
}

// EasyMerge joins the selected tables across inferred relationships and
// returns the combined result restricted to the requested columns, in
// selection order, together with any fan-out or dropped-row diagnostics.
// A single-table selection reduces to a projection.
func (c *Catalog) EasyMerge(selections []merge.Selection) (*models.Table, []merge.Diagnostic, error) {
	if len(selections) == 0 {
		return nil, nil, fmt.Errorf("no tables selected")
	}
	tables := make([]string, len(selections))
	for i, sel := range selections {
		if !c.store.Has(sel.Table) {
			return nil, nil, fmt.Errorf("table %q not in store", sel.Table)
		}
		tables[i] = sel.Table
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var plan merge.Plan
	if len(selections) > 1 {
		paths, err := c.graph.FindMultiPath(tables)
		if err != nil {
			return nil, nil, err
		}
		plan, err = merge.BuildPlan(paths, c.rels)
		if err != nil {
			return nil, nil, err
		}
	}

	return merge.NewExecutor(c.store, c.logger).Execute(plan, selections)
}

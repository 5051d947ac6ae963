// Package inference discovers foreign-key relationships between tables from
// data content alone, using set-overlap statistics between candidate
// primary-key and candidate foreign-key columns.
package inference

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// DefaultThreshold is the minimum subset ratio for a relationship to be
// emitted. Containment below 1.0 tolerates a small fraction of orphaned or
// dirty values without admitting coincidental overlaps.
const DefaultThreshold = 0.95

// WarningKind labels a non-fatal condition detected during inference.
type WarningKind string

const (
	// WarningEmptyCandidateSet means no column in the store is all-unique,
	// so no relationships can be inferred and downstream path resolution
	// will universally fail.
	WarningEmptyCandidateSet WarningKind = "empty_candidate_set"

	// WarningAmbiguousPair means more than one relationship was emitted for
	// the same ordered table pair. A merge across that pair will fail until
	// the caller removes all but one of the candidates.
	WarningAmbiguousPair WarningKind = "ambiguous_pair"
)

// Warning is a diagnostic surfaced at inference time rather than deferred
// to merge planning.
type Warning struct {
	Kind       WarningKind           `json:"kind"`
	Message    string                `json:"message"`
	Candidates []models.Relationship `json:"candidates,omitempty"`
}

// Engine infers relationships over a table store.
type Engine struct {
	threshold   float64
	ignoreNulls bool
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides the subset-ratio threshold.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) { e.threshold = threshold }
}

// WithUniqueIgnoringNulls drops nulls from the primary-key uniqueness check,
// so a column with one null and otherwise-unique values still qualifies as
// a key candidate. The default keeps the stricter behavior where any null
// disqualifies the column.
func WithUniqueIgnoringNulls() Option {
	return func(e *Engine) { e.ignoreNulls = true }
}

// NewEngine creates an inference engine. If logger is nil, a no-op logger
// is used.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		threshold: DefaultThreshold,
		logger:    logger.Named("inference"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// columnRef identifies a column within the store.
type columnRef struct {
	table  string
	column *models.Column
}

// Infer computes the relationship set for the store.
//
// Every all-unique column is a candidate primary key; every column is a
// candidate foreign key. For each ordered candidate pair the subset ratio
// |distinct(pk) ∩ distinct(fk)| / |distinct(fk)| is computed over null-
// dropped distinct sets, and a relationship is emitted when it meets the
// threshold. Ambiguous table pairs and a degenerate (key-less) schema are
// reported as warnings, not errors.
func (e *Engine) Infer(st *store.Store) (models.RelationshipSet, []Warning) {
	var warnings []Warning

	primaries := e.primaryCandidates(st)
	if len(primaries) == 0 {
		w := Warning{
			Kind:    WarningEmptyCandidateSet,
			Message: "no all-unique column found in any table; relationship inference is impossible",
		}
		e.logger.Warn(w.Message)
		return models.NewRelationshipSet(nil), append(warnings, w)
	}

	var rels []models.Relationship
	for _, foreign := range e.allColumns(st) {
		foreignDistinct := foreign.column.DistinctValues()
		for _, primary := range primaries {
			if primary.table == foreign.table && primary.column.Name == foreign.column.Name {
				continue
			}
			ratio := subsetRatio(primary.column.DistinctValues(), foreignDistinct)
			if ratio < e.threshold {
				continue
			}
			rels = append(rels, models.Relationship{
				ID:         uuid.New(),
				FromTable:  foreign.table,
				FromColumn: foreign.column.Name,
				ToTable:    primary.table,
				ToColumn:   primary.column.Name,
				Confidence: ratio,
				Method:     models.DetectionValueMatch,
			})
		}
	}

	set := models.NewRelationshipSet(rels)
	warnings = append(warnings, e.ambiguityWarnings(set)...)

	e.logger.Info("relationship inference complete",
		zap.Int("tables", st.Len()),
		zap.Int("key_candidates", len(primaries)),
		zap.Int("relationships", set.Len()),
		zap.Int("warnings", len(warnings)))

	return set, warnings
}

// primaryCandidates returns every (table, column) whose values are all
// unique, in store order.
func (e *Engine) primaryCandidates(st *store.Store) []columnRef {
	var out []columnRef
	for _, ref := range e.allColumns(st) {
		if ref.column.IsAllUnique(e.ignoreNulls) {
			out = append(out, ref)
		}
	}
	return out
}

// allColumns returns every column in the store in table, then declaration,
// order.
func (e *Engine) allColumns(st *store.Store) []columnRef {
	var out []columnRef
	for _, name := range st.Names() {
		t, err := st.Table(name)
		if err != nil {
			continue
		}
		for _, col := range t.Columns {
			out = append(out, columnRef{table: name, column: col})
		}
	}
	return out
}

// subsetRatio is the fraction of the foreign candidate's distinct non-null
// values also present in the primary candidate's distinct non-null values.
// An empty foreign distinct set yields 0.
func subsetRatio(primary, foreign map[any]struct{}) float64 {
	if len(foreign) == 0 {
		return 0
	}
	matched := 0
	for v := range foreign {
		if _, ok := primary[v]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(foreign))
}

// ambiguityWarnings reports every ordered table pair carrying more than one
// relationship. The merge planner rejects such pairs, so surfacing them at
// inference time lets the caller fix the mapping before planning a join.
func (e *Engine) ambiguityWarnings(set models.RelationshipSet) []Warning {
	type pair struct{ from, to string }
	grouped := make(map[pair][]models.Relationship)
	var order []pair
	for _, r := range set.All() {
		p := pair{from: r.FromTable, to: r.ToTable}
		if _, seen := grouped[p]; !seen {
			order = append(order, p)
		}
		grouped[p] = append(grouped[p], r)
	}

	var warnings []Warning
	for _, p := range order {
		candidates := grouped[p]
		if len(candidates) < 2 {
			continue
		}
		w := Warning{
			Kind: WarningAmbiguousPair,
			Message: fmt.Sprintf("%d relationships between %q and %q; merges across this pair will fail until resolved",
				len(candidates), p.from, p.to),
			Candidates: candidates,
		}
		e.logger.Warn(w.Message,
			zap.String("from_table", p.from),
			zap.String("to_table", p.to),
			zap.Int("candidates", len(candidates)))
		warnings = append(warnings, w)
	}
	return warnings
}

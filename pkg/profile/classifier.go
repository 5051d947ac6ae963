// Package profile classifies columns into key/temporal/spatial/numeric/
// text/categorical labels with per-type summary statistics, using column
// content, column naming and relationship membership.
package profile

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// categoricalCutoff is the largest distinct-value count at which a string
// column is treated as categorical rather than free text.
const categoricalCutoff = 10

var coordinateKeywords = []string{"latitude", "longitude", "lat", "lng", "lon", "geo", "coord"}

var regionKeywords = []string{"address", "city", "state", "country", "region", "district", "zip", "postal", "postcode", "location", "place"}

// Classifier produces column profiles against a relationship snapshot.
type Classifier struct {
	rels   models.RelationshipSet
	sim    NameSimilarity
	logger *zap.Logger
}

// NewClassifier creates a classifier. A nil similarity falls back to
// InflectionSimilarity; a nil logger to a no-op logger.
func NewClassifier(rels models.RelationshipSet, sim NameSimilarity, logger *zap.Logger) *Classifier {
	if sim == nil {
		sim = InflectionSimilarity{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{rels: rels, sim: sim, logger: logger.Named("classifier")}
}

// ProfileStore profiles every column of every table, in store order.
func (c *Classifier) ProfileStore(st *store.Store) []models.ColumnProfile {
	var out []models.ColumnProfile
	for _, name := range st.Names() {
		t, err := st.Table(name)
		if err != nil {
			continue
		}
		out = append(out, c.ProfileTable(t)...)
	}
	return out
}

// ProfileTable profiles every column of a table in declaration order.
func (c *Classifier) ProfileTable(t *models.Table) []models.ColumnProfile {
	out := make([]models.ColumnProfile, 0, len(t.Columns))
	for _, col := range t.Columns {
		out = append(out, c.ProfileColumn(t, col))
	}
	return out
}

// ProfileColumn classifies a single column. Rules are checked in order and
// the first match wins: key roles from relationship membership, then
// temporal, spatial, numeric, and finally text versus categorical by
// cardinality.
func (c *Classifier) ProfileColumn(t *models.Table, col *models.Column) models.ColumnProfile {
	p := models.ColumnProfile{
		Table:           t.Name,
		Column:          col.Name,
		Count:           col.Count(),
		DistinctCount:   col.DistinctCount(),
		DuplicatedCount: col.DuplicatedCount(),
		MissingCount:    col.MissingCount(),
	}

	if subtype, ok := c.keySubtype(t, col); ok {
		p.Type = models.ColumnKey
		p.Subtype = subtype
		return p
	}

	switch {
	case col.Type == models.TypeDatetime:
		p.Type = models.ColumnTemporal
		p.Subtype = temporalSubtype(col)
		p.Temporal = temporalStats(col)
	case nameContainsAny(col.Name, coordinateKeywords):
		p.Type = models.ColumnSpatial
		p.Subtype = models.SubtypeCoordinates
	case nameContainsAny(col.Name, regionKeywords):
		p.Type = models.ColumnSpatial
		p.Subtype = models.SubtypeRegion
	case col.Type == models.TypeInteger || col.Type == models.TypeFloat:
		p.Type = models.ColumnNumeric
		p.Subtype = numericSubtype(col)
		p.Numeric = numericStats(col)
	case col.Type == models.TypeString && p.DistinctCount > categoricalCutoff:
		p.Type = models.ColumnText
		p.Subtype = models.SubtypeFreeText
		p.Frequency = frequencyStats(col)
	case col.Type == models.TypeString:
		p.Type = models.ColumnCategorical
		p.Subtype = models.SubtypeNominal
		p.Frequency = frequencyStats(col)
	default:
		p.Type = models.ColumnUnknown
	}
	return p
}

// keySubtype resolves the key classification rules, in priority order:
//
//  1. this exact (table, column) is both referenced and referencing; name
//     similarity against every table carrying the column decides whether
//     this owner is the primary one
//  2. referenced only (to side) → primary
//  3. referencing only (from side) → foreign
//  4. all-unique but unmatched by inference → internal
//  5. key-like name with nothing else matching → unknown
func (c *Classifier) keySubtype(t *models.Table, col *models.Column) (models.ColumnSubtype, bool) {
	isTo := len(c.rels.ReferencedBy(t.Name, col.Name)) > 0
	isFrom := len(c.rels.References(t.Name, col.Name)) > 0

	switch {
	case isTo && isFrom:
		toTables, fromTables := c.rels.TablesWithColumn(col.Name)
		pool := mergeDistinct(toTables, fromTables)
		best, score := c.sim.BestMatch(col.Name, pool)
		c.logger.Debug("resolved dual-role key column by name similarity",
			zap.String("table", t.Name),
			zap.String("column", col.Name),
			zap.String("primary_owner", best),
			zap.Float64("score", score))
		if best == t.Name {
			return models.SubtypePrimary, true
		}
		return models.SubtypeForeign, true
	case isTo:
		return models.SubtypePrimary, true
	case isFrom:
		return models.SubtypeForeign, true
	}

	if col.IsAllUnique(false) {
		return models.SubtypeInternal, true
	}
	if strings.Contains(strings.ToLower(col.Name), "_id") {
		return models.SubtypeUnknownKey, true
	}
	return "", false
}

func mergeDistinct(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func nameContainsAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// temporalSubtype reports which part of the timestamps varies: only the
// date part → date, only the clock part → time, both → datetime. A column
// with a single distinct value falls back on whether it carries a clock
// component at all.
func temporalSubtype(col *models.Column) models.ColumnSubtype {
	dates := make(map[string]struct{})
	clocks := make(map[string]struct{})
	midnightOnly := true
	for _, v := range col.Values {
		ts, ok := v.(time.Time)
		if !ok {
			continue
		}
		dates[ts.Format("2006-01-02")] = struct{}{}
		clock := ts.Format("15:04:05.000000000")
		clocks[clock] = struct{}{}
		if clock != "00:00:00.000000000" {
			midnightOnly = false
		}
	}
	dateVaries := len(dates) > 1
	clockVaries := len(clocks) > 1
	switch {
	case dateVaries && clockVaries:
		return models.SubtypeDatetime
	case dateVaries:
		return models.SubtypeDate
	case clockVaries:
		return models.SubtypeTime
	case midnightOnly:
		return models.SubtypeDate
	default:
		return models.SubtypeDatetime
	}
}

func temporalStats(col *models.Column) *models.TemporalStats {
	var min, max time.Time
	found := false
	for _, v := range col.Values {
		ts, ok := v.(time.Time)
		if !ok {
			continue
		}
		if !found || ts.Before(min) {
			min = ts
		}
		if !found || ts.After(max) {
			max = ts
		}
		found = true
	}
	if !found {
		return nil
	}
	return &models.TemporalStats{Min: min, Max: max, Range: max.Sub(min)}
}

// numericSubtype is discrete for integer columns and for float columns
// whose values are all whole numbers, continuous otherwise.
func numericSubtype(col *models.Column) models.ColumnSubtype {
	if col.Type == models.TypeInteger {
		return models.SubtypeDiscrete
	}
	for _, v := range col.Values {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if f != float64(int64(f)) {
			return models.SubtypeContinuous
		}
	}
	return models.SubtypeDiscrete
}

func numericStats(col *models.Column) *models.NumericStats {
	var min, max, sum float64
	n := 0
	for _, v := range col.Values {
		f, ok := asFloat(v)
		if !ok {
			continue
		}
		if n == 0 || f < min {
			min = f
		}
		if n == 0 || f > max {
			max = f
		}
		sum += f
		n++
	}
	if n == 0 {
		return nil
	}
	return &models.NumericStats{Min: min, Max: max, Mean: sum / float64(n)}
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// frequencyStats finds the most frequent non-null string value. Ties keep
// the value seen first.
func frequencyStats(col *models.Column) *models.FrequencyStats {
	counts := make(map[string]int)
	var order []string
	for _, v := range col.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	if len(order) == 0 {
		return nil
	}
	mode := order[0]
	for _, s := range order {
		if counts[s] > counts[mode] {
			mode = s
		}
	}
	return &models.FrequencyStats{Mode: mode, ModeCount: counts[mode]}
}

package models

import (
	"github.com/google/uuid"
)

// DetectionMethod records how a relationship was discovered.
type DetectionMethod string

const (
	DetectionValueMatch DetectionMethod = "value_match"
	DetectionNameMatch  DetectionMethod = "name_match"
	DetectionManual     DetectionMethod = "manual"
)

// Relationship is a directed foreign-key-to-primary-key column pairing.
// The from side is the presumed foreign key, the to side the presumed
// primary key. Confidence is the subset ratio in [0,1]; name-matched and
// manual relationships carry 1.0.
type Relationship struct {
	ID         uuid.UUID       `json:"id"`
	FromTable  string          `json:"from_table"`
	FromColumn string          `json:"from_column"`
	ToTable    string          `json:"to_table"`
	ToColumn   string          `json:"to_column"`
	Confidence float64         `json:"confidence"`
	Method     DetectionMethod `json:"method"`
}

// SamePair reports whether the relationship connects the same ordered
// column pair as other, ignoring ID, confidence and method.
func (r Relationship) SamePair(other Relationship) bool {
	return r.FromTable == other.FromTable && r.FromColumn == other.FromColumn &&
		r.ToTable == other.ToTable && r.ToColumn == other.ToColumn
}

// RelationshipSet is an immutable snapshot of inferred relationships.
// Updates produce a new snapshot; callers must not mutate the slices it
// hands out.
type RelationshipSet struct {
	rels []Relationship
}

// NewRelationshipSet builds a snapshot from the given relationships.
func NewRelationshipSet(rels []Relationship) RelationshipSet {
	own := make([]Relationship, len(rels))
	copy(own, rels)
	return RelationshipSet{rels: own}
}

// All returns the relationships in insertion order.
func (s RelationshipSet) All() []Relationship {
	return s.rels
}

// Len returns the number of relationships.
func (s RelationshipSet) Len() int {
	return len(s.rels)
}

// Between returns every relationship whose from side is fromTable and whose
// to side is toTable, in insertion order. The merge planner requires exactly
// one match per ordered pair.
func (s RelationshipSet) Between(fromTable, toTable string) []Relationship {
	var out []Relationship
	for _, r := range s.rels {
		if r.FromTable == fromTable && r.ToTable == toTable {
			out = append(out, r)
		}
	}
	return out
}

// References returns the relationships in which (table, column) is the
// foreign-key side.
func (s RelationshipSet) References(table, column string) []Relationship {
	var out []Relationship
	for _, r := range s.rels {
		if r.FromTable == table && r.FromColumn == column {
			out = append(out, r)
		}
	}
	return out
}

// ReferencedBy returns the relationships in which (table, column) is the
// primary-key side.
func (s RelationshipSet) ReferencedBy(table, column string) []Relationship {
	var out []Relationship
	for _, r := range s.rels {
		if r.ToTable == table && r.ToColumn == column {
			out = append(out, r)
		}
	}
	return out
}

// TablesWithColumn returns the distinct tables that carry the named column
// on either side of the mapping, in insertion order. Used by the column
// classifier to resolve primary-vs-foreign ownership by name similarity.
func (s RelationshipSet) TablesWithColumn(column string) (toTables, fromTables []string) {
	seenTo := make(map[string]bool)
	seenFrom := make(map[string]bool)
	for _, r := range s.rels {
		if r.ToColumn == column && !seenTo[r.ToTable] {
			seenTo[r.ToTable] = true
			toTables = append(toTables, r.ToTable)
		}
		if r.FromColumn == column && !seenFrom[r.FromTable] {
			seenFrom[r.FromTable] = true
			fromTables = append(fromTables, r.FromTable)
		}
	}
	return toTables, fromTables
}

// WithAdded returns a new snapshot with rel appended.
func (s RelationshipSet) WithAdded(rel Relationship) RelationshipSet {
	out := make([]Relationship, 0, len(s.rels)+1)
	out = append(out, s.rels...)
	out = append(out, rel)
	return RelationshipSet{rels: out}
}

// Without returns a new snapshot keeping only relationships for which keep
// returns true, along with the number removed.
func (s RelationshipSet) Without(keep func(Relationship) bool) (RelationshipSet, int) {
	out := make([]Relationship, 0, len(s.rels))
	for _, r := range s.rels {
		if keep(r) {
			out = append(out, r)
		}
	}
	return RelationshipSet{rels: out}, len(s.rels) - len(out)
}

package models

// ValueType is the inferred type of a column's values, tagged at load time.
type ValueType string

const (
	TypeInteger  ValueType = "integer"
	TypeFloat    ValueType = "float"
	TypeString   ValueType = "string"
	TypeDatetime ValueType = "datetime"
	TypeOther    ValueType = "other"
)

// Column is a named, typed sequence of values belonging to exactly one table.
// A nil entry marks a missing value. Values must be comparable scalars
// (int64, float64, string, time.Time); loaders are responsible for
// normalizing driver-specific types before constructing a Column.
type Column struct {
	Name   string
	Type   ValueType
	Values []any
}

// Count returns the total number of values, missing included.
func (c *Column) Count() int {
	return len(c.Values)
}

// MissingCount returns the number of nil values.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v == nil {
			n++
		}
	}
	return n
}

// DistinctValues returns the set of distinct non-null values.
func (c *Column) DistinctValues() map[any]struct{} {
	set := make(map[any]struct{}, len(c.Values))
	for _, v := range c.Values {
		if v != nil {
			set[v] = struct{}{}
		}
	}
	return set
}

// DistinctCount returns the number of distinct non-null values.
func (c *Column) DistinctCount() int {
	return len(c.DistinctValues())
}

// DuplicatedCount returns how many values are repeats of an earlier value.
// Nulls collapse into a single distinct slot, matching the profiling
// convention count − distinct-after-dedup.
func (c *Column) DuplicatedCount() int {
	distinct := c.DistinctCount()
	if c.MissingCount() > 0 {
		distinct++
	}
	return c.Count() - distinct
}

// IsAllUnique reports whether every value in the column is distinct.
//
// With ignoreNulls false (the default policy) any null disqualifies the
// column: a null is not a distinct value, so a column containing one cannot
// be all-unique. With ignoreNulls true the check applies to non-null values
// only.
func (c *Column) IsAllUnique(ignoreNulls bool) bool {
	if c.Count() == 0 {
		return false
	}
	if ignoreNulls {
		return c.DistinctCount() == c.Count()-c.MissingCount()
	}
	return c.MissingCount() == 0 && c.DistinctCount() == c.Count()
}

// Clone returns a deep copy of the column. Values are scalars, so copying
// the slice is sufficient.
func (c *Column) Clone() *Column {
	values := make([]any, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}

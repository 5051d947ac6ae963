package models

import "time"

// ColumnType is the top-level classification of a column.
type ColumnType string

const (
	ColumnKey         ColumnType = "key"
	ColumnTemporal    ColumnType = "temporal"
	ColumnSpatial     ColumnType = "spatial"
	ColumnNumeric     ColumnType = "numeric"
	ColumnText        ColumnType = "text"
	ColumnCategorical ColumnType = "categorical"
	ColumnUnknown     ColumnType = "unknown"
)

// ColumnSubtype refines the classification within a ColumnType.
type ColumnSubtype string

const (
	SubtypePrimary     ColumnSubtype = "primary"
	SubtypeForeign     ColumnSubtype = "foreign"
	SubtypeInternal    ColumnSubtype = "internal"
	SubtypeUnknownKey  ColumnSubtype = "unknown"
	SubtypeDate        ColumnSubtype = "date"
	SubtypeTime        ColumnSubtype = "time"
	SubtypeDatetime    ColumnSubtype = "datetime"
	SubtypeCoordinates ColumnSubtype = "coordinates"
	SubtypeRegion      ColumnSubtype = "region"
	SubtypeDiscrete    ColumnSubtype = "discrete"
	SubtypeContinuous  ColumnSubtype = "continuous"
	SubtypeFreeText    ColumnSubtype = "freetext"
	SubtypeNominal     ColumnSubtype = "nominal"
)

// NumericStats summarizes a numeric column.
type NumericStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// TemporalStats summarizes a datetime column.
type TemporalStats struct {
	Min   time.Time     `json:"min"`
	Max   time.Time     `json:"max"`
	Range time.Duration `json:"range"`
}

// FrequencyStats summarizes a text or categorical column.
type FrequencyStats struct {
	Mode      string `json:"mode"`
	ModeCount int    `json:"mode_count"`
}

// ColumnProfile is the classification result for a single column. The base
// counts are always populated; exactly one of the stats blocks may be set
// depending on the column type.
type ColumnProfile struct {
	Table   string        `json:"table"`
	Column  string        `json:"column"`
	Type    ColumnType    `json:"type"`
	Subtype ColumnSubtype `json:"subtype"`

	Count           int `json:"count"`
	DistinctCount   int `json:"distinct_count"`
	DuplicatedCount int `json:"duplicated_count"`
	MissingCount    int `json:"missing_count"`

	Numeric   *NumericStats   `json:"numeric,omitempty"`
	Temporal  *TemporalStats  `json:"temporal,omitempty"`
	Frequency *FrequencyStats `json:"frequency,omitempty"`
}

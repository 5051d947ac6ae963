package datasource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/databridge/pkg/models"
)

func TestNormalizeValue(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 6, 1, 13, 0, 0, 0, loc)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", int(7), int64(7)},
		{"int32", int32(7), int64(7)},
		{"uint16", uint16(7), int64(7)},
		{"float32", float32(1.5), float64(1.5)},
		{"bytes", []byte("abc"), "abc"},
		{"bool true", true, int64(1)},
		{"bool false", false, int64(0)},
		{"time to utc", ts, ts.UTC()},
		{"string passthrough", "x", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.in))
		})
	}
}

func TestTypeFromValues(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name   string
		values []any
		want   models.ValueType
	}{
		{"integers", []any{int64(1), nil, int64(2)}, models.TypeInteger},
		{"floats", []any{1.5, 2.5}, models.TypeFloat},
		{"int widens to float", []any{int64(1), 2.5}, models.TypeFloat},
		{"strings", []any{"a", nil}, models.TypeString},
		{"datetimes", []any{now, now.Add(time.Hour)}, models.TypeDatetime},
		{"mixed string and int", []any{"a", int64(1)}, models.TypeOther},
		{"all null", []any{nil, nil}, models.TypeOther},
		{"empty", nil, models.TypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeFromValues(tt.values))
		})
	}
}

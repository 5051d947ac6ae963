package datasource

import (
	"time"

	"github.com/ekaya-inc/databridge/pkg/models"
)

// NormalizeValue maps driver-specific types onto the scalar set the core
// operates on: int64, float64, string, time.Time, or nil for SQL nulls.
// Anything else is stringified by the caller or kept as-is at the cost of
// an "other" value type.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case []byte:
		return string(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return x.UTC()
	default:
		return x
	}
}

// TypeFromValues infers a column's value type from its normalized values.
// Integer widens to float when both appear; any other mixture degrades to
// string when all values are strings, otherwise to other.
func TypeFromValues(values []any) models.ValueType {
	var hasInt, hasFloat, hasString, hasTime, hasOther bool
	nonNull := 0
	for _, v := range values {
		switch v.(type) {
		case nil:
			continue
		case int64:
			hasInt = true
		case float64:
			hasFloat = true
		case string:
			hasString = true
		case time.Time:
			hasTime = true
		default:
			hasOther = true
		}
		nonNull++
	}

	switch {
	case nonNull == 0:
		return models.TypeOther
	case hasOther:
		return models.TypeOther
	case hasTime && !hasInt && !hasFloat && !hasString:
		return models.TypeDatetime
	case hasString && !hasInt && !hasFloat && !hasTime:
		return models.TypeString
	case hasFloat && !hasString && !hasTime:
		return models.TypeFloat
	case hasInt && !hasString && !hasTime:
		return models.TypeInteger
	default:
		return models.TypeOther
	}
}

package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalises an amount as the persistence layer may deliver it,
// either numeric or as a numeric string, into a decimal.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch a := v.(type) {
	case decimal.Decimal:
		return a, nil
	case float64:
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return decimal.Zero, fmt.Errorf("%w: amount %v is not finite", ErrInvalidRecord, a)
		}
		return decimal.NewFromFloat(a), nil
	case float32:
		return ParseAmount(float64(a))
	case int:
		return decimal.NewFromInt(int64(a)), nil
	case int64:
		return decimal.NewFromInt(a), nil
	case json.Number:
		return ParseAmount(a.String())
	case []byte:
		return ParseAmount(string(a))
	case string:
		s := strings.TrimSpace(a)
		if s == "" {
			return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidRecord)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: amount %q: %v", ErrInvalidRecord, a, err)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("%w: missing amount", ErrInvalidRecord)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported amount type %T", ErrInvalidRecord, v)
	}
}

// ToFloat converts a decimal amount for the engine's float arithmetic.
func ToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Round rounds a computed amount to cents for presentation.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

package pricing

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Input is a user-entered numeric field. Unset renders as a blank field but
// reads as zero through Safe.
type Input struct {
	value decimal.Decimal
	set   bool
}

// Unset returns an Input with no value.
func Unset() Input {
	return Input{}
}

// Value wraps d as a set Input.
func Value(d decimal.Decimal) Input {
	return Input{value: d, set: true}
}

// Int wraps n as a set Input.
func Int(n int64) Input {
	return Value(decimal.NewFromInt(n))
}

// ParseInput converts raw form text. Blank or non-numeric text is unset.
func ParseInput(raw string) Input {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Unset()
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Unset()
	}
	return Value(d)
}

func (i Input) IsSet() bool {
	return i.set
}

// Decimal returns the stored value and whether one is present.
func (i Input) Decimal() (decimal.Decimal, bool) {
	return i.value, i.set
}

// Safe returns the value, or zero when unset.
func (i Input) Safe() decimal.Decimal {
	if !i.set {
		return decimal.Zero
	}
	return i.value
}

func (i Input) String() string {
	if !i.set {
		return ""
	}
	return i.value.String()
}

// MarshalJSON renders unset as null and values as bare JSON numbers.
func (i Input) MarshalJSON() ([]byte, error) {
	if !i.set {
		return []byte("null"), nil
	}
	return []byte(i.value.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings, booleans and null. Anything
// it cannot read as a number becomes unset instead of failing the request.
func (i *Input) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*i = Unset()
		return nil
	}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		*i = Unset()
		return nil
	}
	*i = fromAny(raw)
	return nil
}

// Coerce normalizes arbitrary values to a decimal, defaulting to zero.
func Coerce(v any) decimal.Decimal {
	return fromAny(v).Safe()
}

func fromAny(v any) Input {
	switch t := v.(type) {
	case nil:
		return Unset()
	case Input:
		return t
	case decimal.Decimal:
		return Value(t)
	case *decimal.Decimal:
		if t == nil {
			return Unset()
		}
		return Value(*t)
	case decimal.NullDecimal:
		if !t.Valid {
			return Unset()
		}
		return Value(t.Decimal)
	case json.Number:
		return ParseInput(t.String())
	case string:
		return ParseInput(t)
	case bool:
		if t {
			return Int(1)
		}
		return Int(0)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	default:
		return Unset()
	}
}

func fromFloat(f float64) Input {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Unset()
	}
	return Value(decimal.NewFromFloat(f))
}

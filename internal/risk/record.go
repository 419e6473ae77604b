package risk

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record maps feature names to submitted values. A Record is built per
// submission and never shared.
type Record map[string]float64

// DefaultRecord returns the form's initial values.
func DefaultRecord() Record {
	r := make(Record, len(fields))
	for _, f := range fields {
		r[f.Name] = f.Default
	}
	return r
}

// Clone returns a copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Validate checks that every survey field is present and within its domain.
// Fields are checked in display order so the first error is stable.
func (r Record) Validate() error {
	for _, f := range fields {
		v, ok := r[f.Name]
		if !ok {
			return &ErrInvalidInput{Field: f.Name, Reason: "missing value"}
		}
		if err := f.Check(v); err != nil {
			return err
		}
	}
	return nil
}

// ParseRecord coerces raw form values into a Record.
func ParseRecord(raw map[string]string) (Record, error) {
	values := make(map[string]any, len(raw))
	for k, v := range raw {
		values[k] = v
	}
	return Coerce(values)
}

// Coerce converts decoded values (strings, JSON numbers, Go numbers) into a
// Record. Unknown names and non-numeric values are ErrInvalidInput. Missing
// names are left out; Validate reports them.
func Coerce(values map[string]any) (Record, error) {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	r := make(Record, len(values))
	for _, name := range names {
		if _, ok := LookupField(name); !ok {
			return nil, &ErrInvalidInput{Field: name, Reason: "unknown field"}
		}
		v, err := toFloat(values[name])
		if err != nil {
			return nil, &ErrInvalidInput{Field: name, Reason: err.Error()}
		}
		r[name] = v
	}
	return r, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%v is not a number", v)
	}
}

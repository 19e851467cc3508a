package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Kind tells whether a Value is a scalar or a mapping.
type Kind uint8

const (
	// KindScalar is a single string, number or boolean.
	KindScalar Kind = iota
	// KindMapping is one level of named scalars, flattened as key[prop].
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a single request parameter value.
// The zero Value is the empty-string scalar.
type Value struct {
	kind   Kind
	text   string
	fields map[string]Value
}

// Params maps parameter names to values.
type Params map[string]Value

// String returns a scalar holding s.
func String(s string) Value {
	return Value{kind: KindScalar, text: s}
}

// Int returns a scalar holding the decimal form of i.
func Int(i int64) Value {
	return Value{kind: KindScalar, text: strconv.FormatInt(i, 10)}
}

// Uint returns a scalar holding the decimal form of u.
func Uint(u uint64) Value {
	return Value{kind: KindScalar, text: strconv.FormatUint(u, 10)}
}

// Float returns a scalar holding f spelled as JavaScript prints numbers:
// plain decimal for 1e-6 <= |f| < 1e21, otherwise exponent form such as
// "1e+21" or "1.5e-7". NaN and the infinities become "NaN", "Infinity" and
// "-Infinity"; negative zero becomes "0".
func Float(f float64) Value {
	return floatValue(f, 64)
}

func floatValue(f float64, bitSize int) Value {
	switch {
	case math.IsNaN(f):
		return String("NaN")
	case math.IsInf(f, 1):
		return String("Infinity")
	case math.IsInf(f, -1):
		return String("-Infinity")
	case f == 0:
		return String("0")
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return String(strconv.FormatFloat(f, 'f', -1, bitSize))
	}

	// strconv pads the exponent to two digits ("1.5e-07").
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")
	return String(mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0"))
}

// Bool returns a scalar holding "true" or "false".
func Bool(b bool) Value {
	return Value{kind: KindScalar, text: strconv.FormatBool(b)}
}

// Map returns a mapping value. Entries are flattened as key[prop] during
// normalization and must themselves be scalars.
func Map(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: KindMapping, fields: cp}
}

// StringMap is shorthand for a mapping of string scalars.
func StringMap(fields map[string]string) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = String(v)
	}
	return Value{kind: KindMapping, fields: cp}
}

// Kind reports whether v is a scalar or a mapping.
func (v Value) Kind() Kind { return v.kind }

// IsMapping reports whether v is a mapping.
func (v Value) IsMapping() bool { return v.kind == KindMapping }

// Text returns the textual form of a scalar. It is empty for mappings.
func (v Value) Text() string { return v.text }

// Fields returns a copy of the entries of a mapping, or nil for scalars.
func (v Value) Fields() map[string]Value {
	if v.kind != KindMapping {
		return nil
	}
	cp := make(map[string]Value, len(v.fields))
	for k, f := range v.fields {
		cp[k] = f
	}
	return cp
}

// Merge returns a new Params holding p overlaid with other.
// Neither input is modified.
func (p Params) Merge(other Params) Params {
	out := make(Params, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ErrUnsupportedValue is returned by FromMap for values that have no
// parameter representation, such as slices or maps nested two levels deep.
var ErrUnsupportedValue = errors.New("query: unsupported parameter value")

// FromMap converts loosely typed input, such as decoded JSON, into Params.
// Strings, booleans, numbers, json.Number and fmt.Stringer become scalars.
// Any map with string keys (map[string]any, map[string]string,
// map[string]int, ...) becomes a mapping whose values must be scalars.
// Nil entries are dropped.
func FromMap(m map[string]any) (Params, error) {
	out := make(Params, len(m))
	for k, raw := range m {
		if raw == nil {
			continue
		}
		v, err := fromAny(raw, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrUnsupportedValue, k, err)
		}
		out[k] = v
	}
	return out, nil
}

func fromAny(raw any, allowMapping bool) (Value, error) {
	switch x := raw.(type) {
	case Value:
		if x.kind == KindMapping && !allowMapping {
			return Value{}, errors.New("nested mapping")
		}
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		return String(x.String()), nil
	case map[string]string:
		if !allowMapping {
			return Value{}, errors.New("nested mapping")
		}
		return StringMap(x), nil
	case map[string]any:
		if !allowMapping {
			return Value{}, errors.New("nested mapping")
		}
		fields := make(map[string]Value, len(x))
		for k, inner := range x {
			if inner == nil {
				continue
			}
			fv, err := fromAny(inner, false)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %v", k, err)
			}
			fields[k] = fv
		}
		return Value{kind: KindMapping, fields: fields}, nil
	case fmt.Stringer:
		return String(x.String()), nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32:
		return floatValue(rv.Float(), 32), nil
	case reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if !allowMapping {
			return Value{}, errors.New("nested mapping")
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			inner := iter.Value().Interface()
			if inner == nil {
				continue
			}
			fv, err := fromAny(inner, false)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %v", iter.Key().String(), err)
			}
			fields[iter.Key().String()] = fv
		}
		return Value{kind: KindMapping, fields: fields}, nil
	}
	return Value{}, fmt.Errorf("type %T", raw)
}

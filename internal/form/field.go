package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownField is returned when no field is registered under the event name.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrValueKind is returned when the value tag cannot be applied to the field.
	ErrValueKind = errors.New("form: value kind not accepted by field")
)

// Field binds a name to a location inside T.
type Field[T any] struct {
	Name  string
	apply func(data *T, v Value) error
}

// TextField binds a string field, including named string types such as enums.
func TextField[T any, S ~string](name string, ptr func(*T) *S) Field[T] {
	return Field[T]{Name: name, apply: func(data *T, v Value) error {
		if v.Kind != KindText {
			return kindError(name, v.Kind)
		}
		*ptr(data) = S(v.Text)
		return nil
	}}
}

// NumberField binds a float field. Text values are parsed; blank text means zero.
// NaN and infinities are rejected.
func NumberField[T any](name string, ptr func(*T) *float64) Field[T] {
	return Field[T]{Name: name, apply: func(data *T, v Value) error {
		switch v.Kind {
		case KindNumber:
			if !finite(v.Number) {
				return fmt.Errorf("%w: %s expects a finite number", ErrValueKind, name)
			}
			*ptr(data) = v.Number
		case KindText:
			raw := strings.TrimSpace(v.Text)
			if raw == "" {
				*ptr(data) = 0
				return nil
			}
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || !finite(f) {
				return fmt.Errorf("%w: %s expects a number", ErrValueKind, name)
			}
			*ptr(data) = f
		default:
			return kindError(name, v.Kind)
		}
		return nil
	}}
}

// BoolField binds a checkbox.
func BoolField[T any](name string, ptr func(*T) *bool) Field[T] {
	return Field[T]{Name: name, apply: func(data *T, v Value) error {
		switch v.Kind {
		case KindBool:
			*ptr(data) = v.Bool
		case KindText:
			*ptr(data) = parseBool(v.Text)
		default:
			return kindError(name, v.Kind)
		}
		return nil
	}}
}

// PairsField binds an ordered list of name/value pairs via conversion funcs.
func PairsField[T any](name string, set func(*T, []Pair)) Field[T] {
	return Field[T]{Name: name, apply: func(data *T, v Value) error {
		if v.Kind != KindPairs {
			return kindError(name, v.Kind)
		}
		set(data, clonePairs(v.Pairs))
		return nil
	}}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func kindError(name string, kind ValueKind) error {
	return fmt.Errorf("%w: %s does not accept %s", ErrValueKind, name, kind)
}

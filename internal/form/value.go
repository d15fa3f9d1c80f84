// Package form holds generic form state: a snapshot of initial data, the
// current data, a change dispatcher and a submit trigger.
package form

import (
	"strconv"
	"strings"
)

// ValueKind tags the payload carried by a Value.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindBool
	KindPairs
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindPairs:
		return "pairs"
	default:
		return "unknown"
	}
}

// Pair is a single name/value entry of a list field.
type Pair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Value is a tagged union; only the member matching Kind is meaningful.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
	Pairs  []Pair
}

// Text, Number, Bool and Pairs build a Value of the matching kind.
func Text(s string) Value    { return Value{Kind: KindText, Text: s} }
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Pairs(p []Pair) Value   { return Value{Kind: KindPairs, Pairs: clonePairs(p)} }

// ChangeEvent is emitted by a control when the user edits it.
type ChangeEvent struct {
	Name  string
	Value Value
}

// ValueFromControl maps a raw HTML control submission to a tagged value.
// Numbers that fail to parse, or are not finite, stay text so the field can reject them.
func ValueFromControl(controlType, raw string) Value {
	switch strings.ToLower(controlType) {
	case "checkbox":
		return Bool(parseBool(raw))
	case "number":
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && finite(f) {
			return Number(f)
		}
	}
	return Text(raw)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func clonePairs(p []Pair) []Pair {
	out := make([]Pair, len(p))
	copy(out, p)
	return out
}

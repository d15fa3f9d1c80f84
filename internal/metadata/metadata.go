// Package metadata edits public and private key/value annotations attached
// to a form payload.
package metadata

import (
	"errors"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/form"
)

// Field names used by forms embedding FormData.
const (
	FieldMetadata        = "metadata"
	FieldPrivateMetadata = "privateMetadata"
)

// ErrIndexOutOfRange is returned when an event points past the end of a list.
var ErrIndexOutOfRange = errors.New("metadata: index out of range")

// Input is a single key/value pair. Keys need not be unique.
type Input struct {
	Key   string `json:"key" validate:"required,max=255"`
	Value string `json:"value"`
}

// FormData is embedded by forms that carry metadata.
type FormData struct {
	Metadata        []Input `json:"metadata" validate:"dive"`
	PrivateMetadata []Input `json:"privateMetadata" validate:"dive"`
}

// Clone deep copies both lists and never returns nil slices.
func (d FormData) Clone() FormData {
	return FormData{Metadata: Clone(d.Metadata), PrivateMetadata: Clone(d.PrivateMetadata)}
}

// Clone copies a list; the result is never nil.
func Clone(in []Input) []Input {
	out := make([]Input, len(in))
	copy(out, in)
	return out
}

// Target selects which list an event edits.
type Target int

const (
	Public Target = iota
	Private
)

// FieldName returns the form field the target maps to.
func (t Target) FieldName() string {
	if t == Private {
		return FieldPrivateMetadata
	}
	return FieldMetadata
}

// Action enumerates list edits.
type Action int

const (
	Add Action = iota
	Remove
	UpdateKey
	UpdateValue
	Replace
)

// Event is one edit of a metadata list.
type Event struct {
	Target  Target
	Action  Action
	Index   int
	Value   string
	Entries []Input
}

// Apply returns list with ev applied. The input slice is not modified.
func Apply(list []Input, ev Event) ([]Input, error) {
	out := Clone(list)
	switch ev.Action {
	case Add:
		return append(out, Input{}), nil
	case Replace:
		return Clone(ev.Entries), nil
	}
	if ev.Index < 0 || ev.Index >= len(out) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, ev.Index, len(out))
	}
	switch ev.Action {
	case Remove:
		return append(out[:ev.Index], out[ev.Index+1:]...), nil
	case UpdateKey:
		out[ev.Index].Key = ev.Value
	case UpdateValue:
		out[ev.Index].Value = ev.Value
	default:
		return nil, fmt.Errorf("metadata: unknown action %d", ev.Action)
	}
	return out, nil
}

// ToPairs converts entries to generic form pairs.
func ToPairs(in []Input) []form.Pair {
	out := make([]form.Pair, len(in))
	for i, e := range in {
		out[i] = form.Pair{Name: e.Key, Value: e.Value}
	}
	return out
}

// FromPairs converts generic form pairs to entries.
func FromPairs(in []form.Pair) []Input {
	out := make([]Input, len(in))
	for i, p := range in {
		out[i] = Input{Key: p.Name, Value: p.Value}
	}
	return out
}

// Fields returns the form field descriptors for a payload embedding FormData.
func Fields[T any](data func(*T) *FormData) []form.Field[T] {
	return []form.Field[T]{
		form.PairsField(FieldMetadata, func(t *T, p []form.Pair) { data(t).Metadata = FromPairs(p) }),
		form.PairsField(FieldPrivateMetadata, func(t *T, p []form.Pair) { data(t).PrivateMetadata = FromPairs(p) }),
	}
}

package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// ErrDisabled is returned by Change and Submit while the form is disabled.
var ErrDisabled = errors.New("form: disabled")

// SubmitFunc receives the complete payload and reports user facing errors.
type SubmitFunc[T any] func(ctx context.Context, data T) ([]shared.UserError, error)

// Options configures a Form.
type Options[T any] struct {
	Fields   []Field[T]
	Disabled bool
	OnSubmit SubmitFunc[T]
	// Clone deep copies T. Required when T holds slices or maps.
	Clone func(T) T
}

// Form tracks the state of a single mounted form. It is not safe for
// concurrent use.
type Form[T any] struct {
	initial  T
	data     T
	fields   map[string]Field[T]
	disabled bool
	onSubmit SubmitFunc[T]
	clone    func(T) T
}

// New snapshots initial once. Later changes to the caller's copy are not observed.
func New[T any](initial T, opts Options[T]) *Form[T] {
	clone := opts.Clone
	if clone == nil {
		clone = func(v T) T { return v }
	}
	fields := make(map[string]Field[T], len(opts.Fields))
	for _, f := range opts.Fields {
		fields[f.Name] = f
	}
	return &Form[T]{
		initial:  clone(initial),
		data:     clone(initial),
		fields:   fields,
		disabled: opts.Disabled,
		onSubmit: opts.OnSubmit,
		clone:    clone,
	}
}

// Restore rebuilds a form from a persisted baseline and current data.
func Restore[T any](initial, data T, opts Options[T]) *Form[T] {
	f := New(initial, opts)
	f.data = f.clone(data)
	return f
}

// Data returns a copy of the current payload.
func (f *Form[T]) Data() T {
	return f.clone(f.data)
}

// Initial returns a copy of the baseline the form compares against.
func (f *Form[T]) Initial() T {
	return f.clone(f.initial)
}

// Change applies a single field edit. Disabled forms reject every edit.
func (f *Form[T]) Change(ev ChangeEvent) error {
	if f.disabled {
		return ErrDisabled
	}
	field, ok := f.fields[ev.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, ev.Name)
	}
	next := f.clone(f.data)
	if err := field.apply(&next, ev.Value); err != nil {
		return err
	}
	f.data = next
	return nil
}

// HasChanged reports whether data differs from the baseline.
func (f *Form[T]) HasChanged() bool {
	return !reflect.DeepEqual(f.initial, f.data)
}

// SetDisabled toggles the disabled flag, typically while a submission is in flight.
func (f *Form[T]) SetDisabled(disabled bool) {
	f.disabled = disabled
}

// Disabled reports the disabled flag.
func (f *Form[T]) Disabled() bool {
	return f.disabled
}

// IsSaveDisabled drives the save button of the action bar.
func (f *Form[T]) IsSaveDisabled() bool {
	return f.disabled || !f.HasChanged()
}

// Submit forwards the current payload to OnSubmit. A clean submission
// becomes the new baseline.
func (f *Form[T]) Submit(ctx context.Context) ([]shared.UserError, error) {
	if f.disabled {
		return nil, ErrDisabled
	}
	if f.onSubmit == nil {
		return nil, nil
	}
	errs, err := f.onSubmit(ctx, f.clone(f.data))
	if err != nil {
		return errs, err
	}
	if len(errs) == 0 {
		f.initial = f.clone(f.data)
	}
	return errs, nil
}

package metadata

import "github.com/odyssey-erp/backoffice/internal/form"

// ChangeTrigger wraps a form's change dispatcher so metadata edits arrive as
// whole-list replacements, and remembers which lists were touched.
type ChangeTrigger struct {
	IsMetadataModified        bool
	IsPrivateMetadataModified bool
}

// NewChangeTrigger returns a trigger with nothing modified.
func NewChangeTrigger() *ChangeTrigger {
	return &ChangeTrigger{}
}

// MakeChangeHandler builds a metadata handler on top of change. current must
// return the payload's present metadata lists.
func (t *ChangeTrigger) MakeChangeHandler(change func(form.ChangeEvent) error, current func() FormData) func(Event) error {
	return func(ev Event) error {
		data := current()
		list := data.Metadata
		if ev.Target == Private {
			list = data.PrivateMetadata
		}
		next, err := Apply(list, ev)
		if err != nil {
			return err
		}
		if err := change(form.ChangeEvent{Name: ev.Target.FieldName(), Value: form.Pairs(ToPairs(next))}); err != nil {
			return err
		}
		if ev.Target == Private {
			t.IsPrivateMetadataModified = true
		} else {
			t.IsMetadataModified = true
		}
		return nil
	}
}

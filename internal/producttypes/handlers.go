package producttypes

import (
	"github.com/odyssey-erp/backoffice/internal/form"
	"github.com/odyssey-erp/backoffice/internal/taxclasses"
)

// MakeKindChangeHandler updates the payload kind and then notifies onChangeKind.
// The kind is normalised by ParseKind before either happens.
func MakeKindChangeHandler(change func(form.ChangeEvent) error, onChangeKind func(Kind)) func(Kind) error {
	return func(raw Kind) error {
		kind, err := ParseKind(string(raw))
		if err != nil {
			return err
		}
		if err := change(form.ChangeEvent{Name: FieldKind, Value: form.Text(string(kind))}); err != nil {
			return err
		}
		if onChangeKind != nil {
			onChangeKind(kind)
		}
		return nil
	}
}

// HandleTaxClassChange records id and mirrors the matching label into
// setDisplayName. Unknown ids, including the empty "none" choice, clear the label.
func HandleTaxClassChange(id string, classes []taxclasses.TaxClass, change func(form.ChangeEvent) error, setDisplayName func(string)) error {
	if err := change(form.ChangeEvent{Name: FieldTaxClassID, Value: form.Text(id)}); err != nil {
		return err
	}
	label := ""
	if tc, ok := taxclasses.Find(classes, id); ok {
		label = tc.Name
	}
	setDisplayName(label)
	return nil
}

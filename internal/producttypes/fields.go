package producttypes

import (
	"github.com/odyssey-erp/backoffice/internal/form"
	"github.com/odyssey-erp/backoffice/internal/metadata"
)

// Form field names as posted by the page.
const (
	FieldName               = "name"
	FieldKind               = "kind"
	FieldIsShippingRequired = "isShippingRequired"
	FieldTaxClassID         = "taxClassId"
	FieldWeight             = "weight"
)

func formFields() []form.Field[Form] {
	fields := []form.Field[Form]{
		form.TextField(FieldName, func(f *Form) *string { return &f.Name }),
		form.TextField(FieldKind, func(f *Form) *Kind { return &f.Kind }),
		form.BoolField(FieldIsShippingRequired, func(f *Form) *bool { return &f.IsShippingRequired }),
		form.TextField(FieldTaxClassID, func(f *Form) *string { return &f.TaxClassID }),
		form.NumberField(FieldWeight, func(f *Form) *float64 { return &f.Weight }),
	}
	return append(fields, metadata.Fields(func(f *Form) *metadata.FormData { return &f.FormData })...)
}

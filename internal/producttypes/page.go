package producttypes

import (
	"context"
	"errors"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/form"
	"github.com/odyssey-erp/backoffice/internal/metadata"
	"github.com/odyssey-erp/backoffice/internal/shared"
	"github.com/odyssey-erp/backoffice/internal/taxclasses"
)

// ErrUnmounted is returned for messages sent to a page after it was left.
var ErrUnmounted = errors.New("producttypes: page is not mounted")

// ConfirmButtonState drives the visual state of the savebar.
type ConfirmButtonState string

const (
	ConfirmDefault ConfirmButtonState = "default"
	ConfirmLoading ConfirmButtonState = "loading"
	ConfirmSuccess ConfirmButtonState = "success"
	ConfirmError   ConfirmButtonState = "error"
)

// SubmitFunc receives the complete payload.
type SubmitFunc func(ctx context.Context, data Form) ([]shared.UserError, error)

// CreatePageProps are supplied by the parent on every render.
type CreatePageProps struct {
	Errors              []shared.UserError
	DefaultWeightUnit   WeightUnit
	Disabled            bool
	PageTitle           string
	SaveButtonBarState  ConfirmButtonState
	TaxClasses          []taxclasses.TaxClass
	FetchMoreTaxClasses shared.FetchMoreProps
	// Kind seeds the form at mount. The zero value means no preselection.
	Kind         Kind
	OnChangeKind func(Kind)
	OnSubmit     SubmitFunc
}

// Msg is a user interaction routed to CreatePage.Update.
type Msg interface {
	isMsg()
}

// FieldChanged is a generic edit of a text, number or checkbox control.
type FieldChanged struct{ Event form.ChangeEvent }

// KindChanged selects another product type kind.
type KindChanged struct{ Kind Kind }

// TaxClassChanged selects a tax class by id; an empty id selects none.
type TaxClassChanged struct{ ID string }

// MetadataChanged edits the public or private metadata list.
type MetadataChanged struct{ Event metadata.Event }

// FetchMoreTaxClasses asks the parent for another page of tax classes.
type FetchMoreTaxClasses struct{}

// Submit forwards the payload to OnSubmit.
type Submit struct{}

// Cancel leaves the page for the product type list.
type Cancel struct{}

func (FieldChanged) isMsg()        {}
func (KindChanged) isMsg()         {}
func (TaxClassChanged) isMsg()     {}
func (MetadataChanged) isMsg()     {}
func (FetchMoreTaxClasses) isMsg() {}
func (Submit) isMsg()              {}
func (Cancel) isMsg()              {}

// Outcome reports what the parent has to do after a message.
type Outcome struct {
	Navigate  string
	Errors    []shared.UserError
	Submitted bool
}

// CreatePage is a mounted product type creation page.
type CreatePage struct {
	props               CreatePageProps
	form                *form.Form[Form]
	metadataTrigger     *metadata.ChangeTrigger
	taxClassDisplayName string
	mounted             bool

	changeKind     func(Kind) error
	changeMetadata func(metadata.Event) error
}

// NewCreatePage mounts the page. props.Kind is read here once; later
// SetProps calls never reinitialise the form.
func NewCreatePage(props CreatePageProps) *CreatePage {
	initial := DefaultForm()
	if props.Kind != "" {
		initial.Kind = props.Kind
	}
	return mount(props, initial, initial, "", metadata.NewChangeTrigger())
}

func mount(props CreatePageProps, initial, data Form, displayName string, trigger *metadata.ChangeTrigger) *CreatePage {
	p := &CreatePage{
		props:               props,
		metadataTrigger:     trigger,
		taxClassDisplayName: displayName,
		mounted:             true,
	}
	p.form = form.Restore(initial, data, form.Options[Form]{
		Fields:   formFields(),
		Disabled: props.Disabled,
		OnSubmit: p.submit,
		Clone:    Form.Clone,
	})
	p.changeKind = MakeKindChangeHandler(p.form.Change, p.onChangeKind)
	p.changeMetadata = trigger.MakeChangeHandler(p.form.Change, func() metadata.FormData {
		return p.form.Data().FormData
	})
	return p
}

// SetProps re-renders the page with new props. Form data is untouched.
func (p *CreatePage) SetProps(props CreatePageProps) {
	p.props = props
	p.form.SetDisabled(props.Disabled)
}

// Props returns the props of the latest render.
func (p *CreatePage) Props() CreatePageProps {
	return p.props
}

// Data returns the current payload.
func (p *CreatePage) Data() Form {
	return p.form.Data()
}

// TaxClassDisplayName is the label of the selected tax class.
func (p *CreatePage) TaxClassDisplayName() string {
	return p.taxClassDisplayName
}

// IsSaveDisabled reports whether the savebar's save action is disabled.
func (p *CreatePage) IsSaveDisabled() bool {
	return p.form.IsSaveDisabled()
}

// Mounted reports whether the page still accepts messages.
func (p *CreatePage) Mounted() bool {
	return p.mounted
}

// Unmount discards the page; later messages are rejected.
func (p *CreatePage) Unmount() {
	p.mounted = false
}

// Update applies msg. It is the only place the payload is mutated.
func (p *CreatePage) Update(ctx context.Context, msg Msg) (Outcome, error) {
	if !p.mounted {
		return Outcome{}, ErrUnmounted
	}
	switch msg := msg.(type) {
	case FieldChanged:
		return Outcome{}, p.form.Change(msg.Event)
	case KindChanged:
		return Outcome{}, p.changeKind(msg.Kind)
	case TaxClassChanged:
		return Outcome{}, HandleTaxClassChange(msg.ID, p.props.TaxClasses, p.form.Change, p.setTaxClassDisplayName)
	case MetadataChanged:
		return Outcome{}, p.changeMetadata(msg.Event)
	case FetchMoreTaxClasses:
		if p.props.FetchMoreTaxClasses.CanFetchMore() {
			p.props.FetchMoreTaxClasses.OnFetchMore()
		}
		return Outcome{}, nil
	case Submit:
		errs, err := p.form.Submit(ctx)
		if err != nil {
			return Outcome{Errors: errs}, err
		}
		return Outcome{Errors: errs, Submitted: len(errs) == 0}, nil
	case Cancel:
		p.Unmount()
		return Outcome{Navigate: ListURL()}, nil
	default:
		return Outcome{}, fmt.Errorf("producttypes: unsupported message %T", msg)
	}
}

func (p *CreatePage) submit(ctx context.Context, data Form) ([]shared.UserError, error) {
	if p.props.OnSubmit == nil {
		return nil, nil
	}
	return p.props.OnSubmit(ctx, data)
}

func (p *CreatePage) onChangeKind(kind Kind) {
	if p.props.OnChangeKind != nil {
		p.props.OnChangeKind(kind)
	}
}

func (p *CreatePage) setTaxClassDisplayName(name string) {
	p.taxClassDisplayName = name
}

// Snapshot captures the mounted state so it can survive between requests.
type Snapshot struct {
	Initial                   Form   `json:"initial"`
	Data                      Form   `json:"data"`
	TaxClassDisplayName       string `json:"taxClassDisplayName"`
	IsMetadataModified        bool   `json:"isMetadataModified"`
	IsPrivateMetadataModified bool   `json:"isPrivateMetadataModified"`
}

// Snapshot returns the page state.
func (p *CreatePage) Snapshot() Snapshot {
	return Snapshot{
		Initial:                   p.form.Initial(),
		Data:                      p.form.Data(),
		TaxClassDisplayName:       p.taxClassDisplayName,
		IsMetadataModified:        p.metadataTrigger.IsMetadataModified,
		IsPrivateMetadataModified: p.metadataTrigger.IsPrivateMetadataModified,
	}
}

// RestoreCreatePage continues a mounted page from s. props.Kind is ignored:
// the page was seeded when it was first mounted.
func RestoreCreatePage(s Snapshot, props CreatePageProps) *CreatePage {
	trigger := &metadata.ChangeTrigger{
		IsMetadataModified:        s.IsMetadataModified,
		IsPrivateMetadataModified: s.IsPrivateMetadataModified,
	}
	return mount(props, normalize(s.Initial), normalize(s.Data), s.TaxClassDisplayName, trigger)
}

// normalize replaces nil metadata lists so JSON round trips compare equal.
func normalize(f Form) Form {
	return f.Clone()
}

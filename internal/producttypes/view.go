package producttypes

import (
	"strconv"

	"github.com/odyssey-erp/backoffice/internal/metadata"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Localizer translates page strings.
type Localizer interface {
	Message(key string, args ...any) string
}

// Section names used by the page grid.
const (
	SectionDetails  = "details"
	SectionTaxes    = "taxes"
	SectionMetadata = "metadata"
	SectionShipping = "shipping"
)

// Link is a navigation target.
type Link struct {
	Href  string
	Label string
}

// Option is a select choice.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Grid lists section names per column, top to bottom.
type Grid struct {
	Left  []string
	Right []string
}

// DetailsSection renders name and kind.
type DetailsSection struct {
	Name        string
	NameError   string
	Kind        Kind
	KindError   string
	KindOptions []Option
}

// TaxesSection renders the tax class picker.
type TaxesSection struct {
	TaxClassID  string
	DisplayName string
	Error       string
	Options     []Option
	CanLoadMore bool
	Loading     bool
}

// MetadataRow is one editable metadata entry.
type MetadataRow struct {
	Index int
	Key   string
	Value string
}

// MetadataSection renders both metadata lists.
type MetadataSection struct {
	Public  []MetadataRow
	Private []MetadataRow
}

// ShippingSection renders shipping flags and weight.
type ShippingSection struct {
	IsShippingRequired bool
	Weight             string
	WeightUnit         WeightUnit
	WeightSymbol       string
	WeightError        string
}

// Savebar is the bottom action bar.
type Savebar struct {
	Disabled   bool
	State      ConfirmButtonState
	CancelHref string
}

// CreatePageView is everything the template needs to render the page.
type CreatePageView struct {
	Title         string
	Backlink      Link
	Disabled      bool
	Grid          Grid
	Details       DetailsSection
	Taxes         TaxesSection
	Metadata      MetadataSection
	Shipping      ShippingSection
	Savebar       Savebar
	GeneralErrors []shared.UserError
}

// View renders the current state.
func (p *CreatePage) View(l Localizer) CreatePageView {
	data := p.form.Data()
	byField, general := shared.FieldErrors(p.props.Errors)
	for field, e := range byField {
		if !knownField(field) {
			general = append(general, e)
		}
	}

	state := p.props.SaveButtonBarState
	if state == "" {
		state = ConfirmDefault
	}

	return CreatePageView{
		Title:    p.props.PageTitle,
		Backlink: Link{Href: ListURL(), Label: l.Message("Product Types")},
		Disabled: p.props.Disabled,
		Grid: Grid{
			Left:  []string{SectionDetails, SectionTaxes, SectionMetadata},
			Right: []string{SectionShipping},
		},
		Details: DetailsSection{
			Name:        data.Name,
			NameError:   byField[FieldName].Message,
			Kind:        data.Kind,
			KindError:   byField[FieldKind].Message,
			KindOptions: kindOptions(l, data.Kind),
		},
		Taxes: TaxesSection{
			TaxClassID:  data.TaxClassID,
			DisplayName: p.taxClassDisplayName,
			Error:       byField[FieldTaxClassID].Message,
			Options:     p.taxClassOptions(l, data.TaxClassID),
			CanLoadMore: p.props.FetchMoreTaxClasses.HasMore,
			Loading:     p.props.FetchMoreTaxClasses.Loading,
		},
		Metadata: MetadataSection{
			Public:  metadataRows(data.Metadata),
			Private: metadataRows(data.PrivateMetadata),
		},
		Shipping: ShippingSection{
			IsShippingRequired: data.IsShippingRequired,
			Weight:             strconv.FormatFloat(data.Weight, 'f', -1, 64),
			WeightUnit:         p.props.DefaultWeightUnit,
			WeightSymbol:       p.props.DefaultWeightUnit.Symbol(),
			WeightError:        byField[FieldWeight].Message,
		},
		Savebar: Savebar{
			Disabled:   p.IsSaveDisabled(),
			State:      state,
			CancelHref: ListURL(),
		},
		GeneralErrors: general,
	}
}

func knownField(name string) bool {
	switch name {
	case FieldName, FieldKind, FieldTaxClassID, FieldWeight:
		return true
	}
	return false
}

func kindOptions(l Localizer, selected Kind) []Option {
	labels := map[Kind]string{
		KindNormal:   l.Message("Regular product type"),
		KindGiftCard: l.Message("Gift card product type"),
	}
	opts := make([]Option, 0, len(Kinds))
	for _, k := range Kinds {
		opts = append(opts, Option{Value: string(k), Label: labels[k], Selected: k == selected})
	}
	return opts
}

// taxClassOptions starts with "none". A selected id missing from the loaded
// classes is kept as an option labelled with its raw id.
func (p *CreatePage) taxClassOptions(l Localizer, selected string) []Option {
	opts := []Option{{Value: "", Label: l.Message("None"), Selected: selected == ""}}
	found := selected == ""
	for _, tc := range p.props.TaxClasses {
		opts = append(opts, Option{Value: tc.ID, Label: tc.Name, Selected: tc.ID == selected})
		if tc.ID == selected {
			found = true
		}
	}
	if !found {
		opts = append(opts, Option{Value: selected, Label: selected, Selected: true})
	}
	return opts
}

func metadataRows(list []metadata.Input) []MetadataRow {
	rows := make([]MetadataRow, len(list))
	for i, e := range list {
		rows[i] = MetadataRow{Index: i, Key: e.Key, Value: e.Value}
	}
	return rows
}

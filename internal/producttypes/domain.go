// Package producttypes implements the product type creation flow of the
// back office: form state, page composition, persistence and HTTP handlers.
package producttypes

import (
	"errors"
	"strings"
	"time"

	"github.com/odyssey-erp/backoffice/internal/metadata"
)

// Kind classifies a product type.
type Kind string

const (
	KindNormal   Kind = "NORMAL"
	KindGiftCard Kind = "GIFT_CARD"
)

// Kinds lists the selectable kinds in display order.
var Kinds = []Kind{KindNormal, KindGiftCard}

// ErrInvalidKind is returned for kinds outside Kinds.
var ErrInvalidKind = errors.New("producttypes: invalid kind")

// ParseKind accepts the enum value case-insensitively.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", ErrInvalidKind
}

// WeightUnit is the unit weights are entered in.
type WeightUnit string

const (
	WeightUnitG     WeightUnit = "G"
	WeightUnitLB    WeightUnit = "LB"
	WeightUnitOZ    WeightUnit = "OZ"
	WeightUnitKG    WeightUnit = "KG"
	WeightUnitTonne WeightUnit = "TONNE"
)

// ErrInvalidWeightUnit is returned for unknown units.
var ErrInvalidWeightUnit = errors.New("producttypes: invalid weight unit")

// ParseWeightUnit accepts the enum value case-insensitively.
func ParseWeightUnit(raw string) (WeightUnit, error) {
	switch u := WeightUnit(strings.ToUpper(strings.TrimSpace(raw))); u {
	case WeightUnitG, WeightUnitLB, WeightUnitOZ, WeightUnitKG, WeightUnitTonne:
		return u, nil
	}
	return "", ErrInvalidWeightUnit
}

// Symbol is the short label shown next to weight inputs.
func (u WeightUnit) Symbol() string {
	switch u {
	case WeightUnitTonne:
		return "t"
	default:
		return strings.ToLower(string(u))
	}
}

// Form is the payload submitted to create a product type.
type Form struct {
	Name               string  `json:"name" validate:"required,max=250"`
	Kind               Kind    `json:"kind" validate:"required,oneof=NORMAL GIFT_CARD"`
	IsShippingRequired bool    `json:"isShippingRequired"`
	TaxClassID         string  `json:"taxClassId"`
	Weight             float64 `json:"weight" validate:"gte=0"`
	metadata.FormData
}

// DefaultForm returns the fixed defaults of a new product type.
func DefaultForm() Form {
	return Form{
		Kind: KindNormal,
		FormData: metadata.FormData{
			Metadata:        []metadata.Input{},
			PrivateMetadata: []metadata.Input{},
		},
	}
}

// Clone deep copies f.
func (f Form) Clone() Form {
	f.FormData = f.FormData.Clone()
	return f
}

// ProductType is a persisted product type.
type ProductType struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Slug               string           `json:"slug"`
	Kind               Kind             `json:"kind"`
	IsShippingRequired bool             `json:"isShippingRequired"`
	TaxClassID         string           `json:"taxClassId,omitempty"`
	TaxClassName       string           `json:"taxClassName,omitempty"`
	Weight             float64          `json:"weight"`
	WeightUnit         WeightUnit       `json:"weightUnit"`
	Metadata           []metadata.Input `json:"metadata"`
	PrivateMetadata    []metadata.Input `json:"privateMetadata"`
	CreatedAt          time.Time        `json:"createdAt"`
}

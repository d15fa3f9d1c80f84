// Package taxclasses exposes the read side of tax classes used by product forms.
package taxclasses

// TaxClass is a taxation category selectable on product types.
type TaxClass struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one window of the name ordered tax class listing.
type Page struct {
	Items     []TaxClass `json:"items"`
	HasMore   bool       `json:"hasMore"`
	EndCursor string     `json:"endCursor,omitempty"`
}

// Find returns the class with id from list.
func Find(list []TaxClass, id string) (TaxClass, bool) {
	for _, tc := range list {
		if tc.ID == id {
			return tc, true
		}
	}
	return TaxClass{}, false
}

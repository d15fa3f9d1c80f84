package shared

// FetchMoreProps describes an externally paginated list that can be extended on demand.
type FetchMoreProps struct {
	HasMore     bool
	Loading     bool
	OnFetchMore func()
}

// CanFetchMore reports whether requesting another page makes sense.
func (p FetchMoreProps) CanFetchMore() bool {
	return p.HasMore && !p.Loading && p.OnFetchMore != nil
}

// CursorPage requests a window of a cursor paginated listing.
type CursorPage struct {
	First int
	After string
}

// Normalize clamps First into [1, max] and falls back to def when unset.
func (p CursorPage) Normalize(def, max int) CursorPage {
	if p.First <= 0 {
		p.First = def
	}
	if max > 0 && p.First > max {
		p.First = max
	}
	return p
}

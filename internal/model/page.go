package model

// DefaultPageSize is used when a listing does not ask for a size.
const DefaultPageSize = 10

// Page describes a window into an ordered listing.
//
// From is a zero-based row offset, but it is only used to choose a page:
// the page index is From / Size, so every From inside the same Size-sized
// block selects the same rows.
type Page struct {
	From int
	Size int
}

// Index returns the zero-based page index.
func (p Page) Index() int {
	if p.Size <= 0 {
		return 0
	}
	return p.From / p.Size
}

// Offset returns the first row of the page.
func (p Page) Offset() int {
	return p.Index() * p.Limit()
}

// Limit returns the page size, falling back to DefaultPageSize.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}

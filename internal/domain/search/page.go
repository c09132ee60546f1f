package search

import "github.com/amora-labs/amora/internal/domain/profile"

// Page is one cursor-addressed slice of search results.
// An empty next cursor means the feed is exhausted for the current filters.
type Page struct {
	items      []profile.Summary
	nextCursor string
}

// NewPage creates a result page.
func NewPage(items []profile.Summary, nextCursor string) Page {
	return Page{items: items, nextCursor: nextCursor}
}

// Items returns the ordered result profiles.
func (p *Page) Items() []profile.Summary { return p.items }

// NextCursor returns the opaque resume token ("" = exhausted).
func (p *Page) NextCursor() string { return p.nextCursor }

// HasMore reports whether another page can be fetched.
func (p *Page) HasMore() bool { return p.nextCursor != "" }

// Package pagination holds the page cursors for the vault and the
// marketplace. Cursors are small values: every mutation returns a new
// cursor whose page is clamped to [1, TotalPages].
package pagination

// Cursor is the current page of one list.
type Cursor struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// New returns a cursor on the first page. A non-positive total is treated
// as a single-page list.
func New(totalPages int) Cursor {
	if totalPages < 1 {
		totalPages = 1
	}
	return Cursor{Page: 1, TotalPages: totalPages}
}

// Clamp bounds page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return max(1, min(page, totalPages))
}

// Advance moves the cursor by delta pages. Steps past either end stop at
// the boundary; there is no wraparound and no error.
func (c Cursor) Advance(delta int) Cursor {
	c.Page = Clamp(c.Page+delta, c.TotalPages)
	return c
}

// Next is Advance(+1).
func (c Cursor) Next() Cursor { return c.Advance(1) }

// Prev is Advance(-1).
func (c Cursor) Prev() Cursor { return c.Advance(-1) }

// Reset returns the cursor moved back to page 1.
func (c Cursor) Reset() Cursor {
	c.Page = 1
	return c
}

// AtFirst reports whether the cursor is on page 1.
func (c Cursor) AtFirst() bool { return c.Page <= 1 }

// AtLast reports whether the cursor is on the last page.
func (c Cursor) AtLast() bool { return c.Page >= c.TotalPages }

// CanAdvance reports whether Advance(delta) would change the page.
func (c Cursor) CanAdvance(delta int) bool {
	return c.Advance(delta).Page != c.Page
}

// Progress returns how far through the list the cursor is, in (0, 1].
func (c Cursor) Progress() float64 {
	if c.TotalPages < 1 {
		return 1
	}
	return float64(c.Page) / float64(c.TotalPages)
}

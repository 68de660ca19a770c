// Package listview holds the shared behavioral contract of the listing
// pages: client-side substring filtering over fetched rows and a per-row
// expand/collapse set keyed by row identity. The same controller backs the
// customers, calls and texts pages, parameterized by row type.
package listview

import "strings"

// Controller tracks filter and expansion state over a slice of rows. The
// state is view-local: it survives a refetch that keeps the same row ids,
// and is thrown away on page navigation.
type Controller[T any] struct {
	rows     []T
	search   string
	expanded map[string]bool

	id     func(T) string
	fields func(T) []string
}

// New creates a controller. id extracts the stable row identity; fields
// lists the text fields the search term is matched against.
func New[T any](id func(T) string, fields func(T) []string) *Controller[T] {
	return &Controller[T]{
		expanded: make(map[string]bool),
		id:       id,
		fields:   fields,
	}
}

// SetRows replaces the backing rows. Expansion state is kept; entries whose
// id no longer exists simply stop matching anything.
func (c *Controller[T]) SetRows(rows []T) {
	c.rows = rows
}

// Rows returns the unfiltered backing rows.
func (c *Controller[T]) Rows() []T { return c.rows }

// ID returns the stable identity of a row.
func (c *Controller[T]) ID(row T) string { return c.id(row) }

// SetSearch replaces the search term.
func (c *Controller[T]) SetSearch(term string) {
	c.search = term
}

// Search returns the current search term.
func (c *Controller[T]) Search() string { return c.search }

// Visible returns the rows matching the search term: case-insensitive
// substring test against the configured fields. An empty term matches all.
func (c *Controller[T]) Visible() []T {
	if c.search == "" {
		return c.rows
	}
	term := strings.ToLower(c.search)
	var out []T
	for _, row := range c.rows {
		for _, f := range c.fields(row) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Toggle flips the expansion state of the row with the given id.
func (c *Controller[T]) Toggle(id string) {
	if c.expanded[id] {
		delete(c.expanded, id)
	} else {
		c.expanded[id] = true
	}
}

// Expanded reports whether the row with the given id is expanded.
func (c *Controller[T]) Expanded(id string) bool {
	return c.expanded[id]
}

// Reset clears search and expansion state, for page navigation.
func (c *Controller[T]) Reset() {
	c.search = ""
	c.expanded = make(map[string]bool)
}

package grid

import (
	"strings"

	"crmgrid/internal/contact"
)

// SetFilter installs a case-insensitive substring filter on a column.
// An empty substring clears the filter.
func (e *Engine) SetFilter(columnID, substring string) {
	if substring == "" {
		delete(e.filters, columnID)
		return
	}
	e.filters[columnID] = substring
}

// ClearFilter removes the filter on a column.
func (e *Engine) ClearFilter(columnID string) {
	delete(e.filters, columnID)
}

// Filters returns the active column filters.
func (e *Engine) Filters() map[string]string {
	out := make(map[string]string, len(e.filters))
	for k, v := range e.filters {
		out[k] = v
	}
	return out
}

// matches applies the filter conjunction: the record passes only if,
// for every active filter, its stringified value for that column
// contains the filter text case-insensitively. A record with no value
// for a filtered column fails that filter rather than passing
// vacuously.
func (e *Engine) matches(c *contact.Contact) bool {
	for columnID, want := range e.filters {
		value := contact.Stringify(c, columnID)
		if value == "" {
			return false
		}
		if !strings.Contains(strings.ToLower(value), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

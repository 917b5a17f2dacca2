package domain

import "cloud.google.com/go/civil"

// SkippedRow records a row excluded because a field could not be coerced.
type SkippedRow struct {
	Line   int    `json:"line"` // 1-based, counting the header as line 1 and ignoring blank lines
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// FilterChoices are the values a user can pick from for a given table.
// From and To are nil when the table is empty.
type FilterChoices struct {
	From          *civil.Date `json:"from,omitempty"`
	To            *civil.Date `json:"to,omitempty"`
	Categories    []string    `json:"categories"`
	Subcategories []string    `json:"subcategories"`
	Operations    []string    `json:"operations"`
}

// Statement is a parsed upload, ready for filtering.
type Statement struct {
	Vendor  string
	Table   Table
	Skipped []SkippedRow
	Choices FilterChoices
}

// Dashboard is everything the rendering collaborator needs for one view.
type Dashboard struct {
	Vendor       string
	Granularity  Granularity
	Totals       Totals
	Choices      FilterChoices // computed on the unfiltered statement
	Charts       []Chart
	Transactions Table // filtered rows
	Skipped      []SkippedRow
}

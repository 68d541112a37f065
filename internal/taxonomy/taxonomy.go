// Package taxonomy holds the fixed category and department tables records
// are classified against, and resolves submitted classification codes into
// the canonical (code, label, free text) triple that is persisted.
package taxonomy

import (
	"fmt"
	"slices"
)

// OtherCode is reserved in every table for "not in table; use free text".
const OtherCode = "99"

// OtherLabel is the only label OtherCode may carry in a table.
const OtherLabel = "Other"

// Entry is a single code→label row.
type Entry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Table is an immutable code→label mapping for one classification axis.
type Table struct {
	name    string
	entries []Entry
	labels  map[string]string
}

// NewTable builds a Table. It panics on duplicate codes or when OtherCode is
// assigned a label other than OtherLabel; tables are static data, so either is
// a programming error caught at process start.
func NewTable(name string, entries ...Entry) Table {
	labels := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, dup := labels[e.Code]; dup {
			panic(fmt.Sprintf("taxonomy %s: duplicate code %q", name, e.Code))
		}
		if e.Code == OtherCode && e.Label != OtherLabel {
			panic(fmt.Sprintf("taxonomy %s: code %s is reserved for %q", name, OtherCode, OtherLabel))
		}
		labels[e.Code] = e.Label
	}

	return Table{
		name:    name,
		entries: slices.Clone(entries),
		labels:  labels,
	}
}

// Name returns the table name.
func (t Table) Name() string {
	return t.name
}

// Label returns the label for code and whether code is in the table.
func (t Table) Label(code string) (string, bool) {
	l, ok := t.labels[code]
	return l, ok
}

// Entries returns a copy of the table rows in declaration order.
func (t Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Set pairs the category and department tables used by one entity kind.
type Set struct {
	Categories  Table
	Departments Table
}

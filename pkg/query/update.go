package query

import (
	"fmt"
	"strings"
)

// Update builds an UPDATE statement that assigns only the columns set on it.
type Update struct {
	table string
	sets  []string
	args  []any
}

// NewUpdate creates an Update for table.
func NewUpdate(table string) *Update {
	return &Update{table: table}
}

// Set assigns a parameterized value to column.
func (u *Update) Set(column string, value any) *Update {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
	return u
}

// SetIf assigns value to column when ok is true.
func (u *Update) SetIf(ok bool, column string, value any) *Update {
	if ok {
		u.Set(column, value)
	}
	return u
}

// Empty reports whether no column has been assigned.
func (u *Update) Empty() bool {
	return len(u.sets) == 0
}

// Build returns the statement restricted to keyColumn = key. touched is
// appended as a now() assignment when non-empty, and returning lists the
// columns of the RETURNING clause.
func (u *Update) Build(keyColumn string, key any, touched string, returning string) (string, []any) {
	sets := u.sets
	if touched != "" {
		sets = append(sets[:len(sets):len(sets)], touched+" = now()")
	}

	args := append(u.args[:len(u.args):len(u.args)], key)

	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		u.table,
		strings.Join(sets, ", "),
		keyColumn,
		len(args),
	)
	if returning != "" {
		sql += " RETURNING " + returning
	}

	return sql, args
}

package viewmodel

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// Accessor reads one field of a user. ok is false when the field is absent,
// for example because the nested object holding it is missing.
type Accessor func(u *types.User) (value string, ok bool)

// Formatter turns an accessor result into the text shown in a cell.
type Formatter func(value string, ok bool) string

// Column describes one column of the table.
type Column struct {
	ID         string
	Header     string
	Accessor   Accessor
	Sortable   bool
	Filterable bool

	// Format is optional; nil shows the raw value.
	Format Formatter

	// Compare orders two values for sorting. Nil means case-insensitive
	// lexicographic order.
	Compare func(a, b string) int
}

// Value returns the column's value for u, or "" when the field is absent.
// Filtering and sorting always work on Value, never on the formatted cell.
func (c Column) Value(u *types.User) string {
	if c.Accessor == nil || u == nil {
		return ""
	}
	v, ok := c.Accessor(u)
	if !ok {
		return ""
	}
	return v
}

// Cell returns the display text for u.
func (c Column) Cell(u *types.User) string {
	if c.Format == nil {
		return c.Value(u)
	}
	var (
		v  string
		ok bool
	)
	if c.Accessor != nil && u != nil {
		v, ok = c.Accessor(u)
	}
	return c.Format(v, ok)
}

// NotAvailable shows "N/A" for absent or empty values.
func NotAvailable(value string, ok bool) string {
	if !ok || value == "" {
		return "N/A"
	}
	return value
}

// CompareNumeric orders integer strings numerically. Values that do not
// parse sort before those that do, in lexicographic order among themselves.
func CompareNumeric(a, b string) int {
	x, errA := strconv.Atoi(strings.TrimSpace(a))
	y, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

package viewmodel

import (
	"fmt"
	"maps"
)

// DefaultPageSize is the number of rows per page unless WithPageSize says
// otherwise.
const DefaultPageSize = 10

// Direction is the order of an active sort.
type Direction int

const (
	// Ascending sorts a to z.
	Ascending Direction = iota
	// Descending sorts z to a.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// SortState is the single active sort, if any.
type SortState struct {
	// ColumnID is empty when the rows are in fetch order.
	ColumnID  string
	Direction Direction
}

// Active reports whether a column is sorted.
func (s SortState) Active() bool {
	return s.ColumnID != ""
}

// State is the sort, filter and pagination configuration of a table.
// Empty or absent filter values mean "no filter".
type State struct {
	Sort          SortState
	ColumnFilters map[string]string
	GlobalFilter  string
	PageIndex     int
	PageSize      int
}

// DefaultState returns the state of a freshly mounted table.
func DefaultState() State {
	return State{PageSize: DefaultPageSize}
}

// clone returns a copy that shares nothing mutable with s.
func (s State) clone() State {
	s.ColumnFilters = maps.Clone(s.ColumnFilters)
	return s
}

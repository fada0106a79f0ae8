package viewmodel

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// Page is the derived row window plus the metadata a pager needs.
type Page struct {
	Rows            []types.User
	FilteredCount   int
	TotalPages      int
	PageIndex       int // effective index, clamped into range
	PageSize        int
	CanPreviousPage bool
	CanNextPage     bool
	Sort            SortState
}

// Derive runs the filter, sort and paginate pipeline. It is a pure function
// of its arguments and never modifies records.
//
// Column filters are ANDed; the global filter matches when any filterable
// column contains it; both are case-insensitive substring matches. Filters
// or sorts naming unknown columns, or columns with the capability disabled,
// are ignored.
func Derive(records []types.User, columns []Column, state State) Page {
	fold := cases.Fold()
	index := indexColumns(columns)

	var filters []columnFilter
	for id, v := range state.ColumnFilters {
		if v == "" {
			continue
		}
		i, ok := index[id]
		if !ok || !columns[i].Filterable {
			continue
		}
		filters = append(filters, columnFilter{col: columns[i], needle: fold.String(v)})
	}

	global := ""
	if state.GlobalFilter != "" {
		global = fold.String(state.GlobalFilter)
	}

	filtered := make([]types.User, 0, len(records))
	for i := range records {
		u := &records[i]
		if !matchesAll(u, filters, fold) {
			continue
		}
		if global != "" && !matchesAny(u, columns, global, fold) {
			continue
		}
		filtered = append(filtered, *u)
	}

	sortState := SortState{}
	if state.Sort.Active() {
		if i, ok := index[state.Sort.ColumnID]; ok && columns[i].Sortable {
			sortState = state.Sort
			filtered = sortRecords(filtered, columns[i], state.Sort.Direction, fold)
		}
	}

	return paginate(filtered, state.PageIndex, state.PageSize, sortState)
}

// columnFilter is one active column filter, needle already case-folded.
type columnFilter struct {
	col    Column
	needle string
}

func matchesAll(u *types.User, filters []columnFilter, fold cases.Caser) bool {
	for _, f := range filters {
		if !strings.Contains(fold.String(f.col.Value(u)), f.needle) {
			return false
		}
	}
	return true
}

func matchesAny(u *types.User, columns []Column, needle string, fold cases.Caser) bool {
	for _, c := range columns {
		if !c.Filterable {
			continue
		}
		if strings.Contains(fold.String(c.Value(u)), needle) {
			return true
		}
	}
	return false
}

// sortRecords stable-sorts by the column value. Descending negates the
// comparator rather than reversing the result, so ties keep fetch order in
// both directions.
func sortRecords(records []types.User, col Column, dir Direction, fold cases.Caser) []types.User {
	type keyed struct {
		key string
		u   types.User
	}
	cmp := col.Compare
	keys := make([]keyed, len(records))
	for i := range records {
		k := col.Value(&records[i])
		if cmp == nil {
			k = fold.String(k)
		}
		keys[i] = keyed{key: k, u: records[i]}
	}
	if cmp == nil {
		cmp = strings.Compare
	}

	slices.SortStableFunc(keys, func(a, b keyed) int {
		c := cmp(a.key, b.key)
		if dir == Descending {
			return -c
		}
		return c
	})

	out := make([]types.User, len(keys))
	for i, k := range keys {
		out[i] = k.u
	}
	return out
}

func paginate(filtered []types.User, pageIndex, pageSize int, sort SortState) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(filtered)
	pages := (total + pageSize - 1) / pageSize

	// The cursor may point past the end after the filtered set shrank.
	page := pageIndex
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * pageSize
	end := min(start+pageSize, total)
	rows := make([]types.User, 0, end-start)
	rows = append(rows, filtered[start:end]...)

	return Page{
		Rows:            rows,
		FilteredCount:   total,
		TotalPages:      pages,
		PageIndex:       page,
		PageSize:        pageSize,
		CanPreviousPage: page > 0,
		CanNextPage:     page < pages-1,
		Sort:            sort,
	}
}

func indexColumns(columns []Column) map[string]int {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c.ID]; !dup {
			index[c.ID] = i
		}
	}
	return index
}

package viewmodel

import (
	"slices"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// ViewModel holds the fetched records, the column descriptors and the
// current State. Every mutation replaces the state wholesale and notifies
// subscribers with the freshly derived page.
type ViewModel struct {
	columns   []Column
	index     map[string]int
	records   []types.User
	state     State
	observers map[int]func(Page)
	nextObs   int
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithPageSize sets the number of rows per page. Non-positive sizes are
// ignored.
func WithPageSize(n int) Option {
	return func(vm *ViewModel) {
		if n > 0 {
			vm.state.PageSize = n
		}
	}
}

// New creates a ViewModel with no records, no sort, no filters and the
// cursor on the first page. A nil columns slice selects DefaultColumns.
func New(columns []Column, opts ...Option) *ViewModel {
	if columns == nil {
		columns = DefaultColumns()
	}
	vm := &ViewModel{
		columns:   slices.Clone(columns),
		index:     indexColumns(columns),
		state:     DefaultState(),
		observers: make(map[int]func(Page)),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// SetRecords replaces the full record array, for example after a refetch.
// The cursor is kept when it is still in range and otherwise moves to the
// last page, so the stored state always names the page being shown.
func (vm *ViewModel) SetRecords(records []types.User) {
	vm.records = slices.Clone(records)
	if p := vm.Page(); p.PageIndex != vm.state.PageIndex {
		next := vm.state.clone()
		next.PageIndex = p.PageIndex
		vm.state = next
	}
	vm.notify()
}

// Columns returns a copy of the column descriptors.
func (vm *ViewModel) Columns() []Column {
	return slices.Clone(vm.columns)
}

// Column looks up a column by id.
func (vm *ViewModel) Column(id string) (Column, bool) {
	i, ok := vm.index[id]
	if !ok {
		return Column{}, false
	}
	return vm.columns[i], true
}

// State returns a copy of the current view state.
func (vm *ViewModel) State() State {
	return vm.state.clone()
}

// ColumnFilter returns the filter value for a column, "" when unset.
func (vm *ViewModel) ColumnFilter(id string) string {
	return vm.state.ColumnFilters[id]
}

// SetSort sorts by the given column. A column that is not sorted yet starts
// ascending; the sorted column flips between ascending and descending.
// Unknown or non-sortable columns are ignored. Filters and the cursor are
// left alone.
func (vm *ViewModel) SetSort(columnID string) {
	c, ok := vm.Column(columnID)
	if !ok || !c.Sortable {
		return
	}
	vm.apply(func(s *State) {
		if s.Sort.ColumnID != columnID {
			s.Sort = SortState{ColumnID: columnID, Direction: Ascending}
			return
		}
		if s.Sort.Direction == Ascending {
			s.Sort.Direction = Descending
		} else {
			s.Sort.Direction = Ascending
		}
	})
}

// ClearSort returns the rows to fetch order.
func (vm *ViewModel) ClearSort() {
	vm.apply(func(s *State) { s.Sort = SortState{} })
}

// SetColumnFilter replaces the filter for one column; an empty value clears
// it. The cursor returns to the first page. Unknown or non-filterable
// columns are ignored.
func (vm *ViewModel) SetColumnFilter(columnID, value string) {
	c, ok := vm.Column(columnID)
	if !ok || !c.Filterable {
		return
	}
	vm.apply(func(s *State) {
		if value == "" {
			delete(s.ColumnFilters, columnID)
		} else {
			if s.ColumnFilters == nil {
				s.ColumnFilters = make(map[string]string)
			}
			s.ColumnFilters[columnID] = value
		}
		s.PageIndex = 0
	})
}

// SetGlobalFilter sets the filter matched against every filterable column.
// The cursor returns to the first page.
func (vm *ViewModel) SetGlobalFilter(value string) {
	vm.apply(func(s *State) {
		s.GlobalFilter = value
		s.PageIndex = 0
	})
}

// NextPage advances the cursor; it does nothing on the last page.
func (vm *ViewModel) NextPage() {
	p := vm.Page()
	if !p.CanNextPage {
		return
	}
	vm.apply(func(s *State) { s.PageIndex = p.PageIndex + 1 })
}

// PreviousPage moves the cursor back; it does nothing on the first page.
func (vm *ViewModel) PreviousPage() {
	p := vm.Page()
	if !p.CanPreviousPage {
		return
	}
	vm.apply(func(s *State) { s.PageIndex = p.PageIndex - 1 })
}

// GoToPage moves the cursor to a zero-based page, clamped into range.
func (vm *ViewModel) GoToPage(index int) {
	p := vm.Page()
	last := max(p.TotalPages-1, 0)
	vm.apply(func(s *State) { s.PageIndex = min(max(index, 0), last) })
}

// Reset restores the default state, keeping the page size.
func (vm *ViewModel) Reset() {
	size := vm.state.PageSize
	vm.apply(func(s *State) {
		*s = DefaultState()
		s.PageSize = size
	})
}

// Page derives the current row window.
func (vm *ViewModel) Page() Page {
	return Derive(vm.records, vm.columns, vm.state)
}

// VisibleRows returns the rows of the current page.
func (vm *ViewModel) VisibleRows() []types.User {
	return vm.Page().Rows
}

// TotalPages returns the number of pages of the filtered set; 0 when
// nothing matches.
func (vm *ViewModel) TotalPages() int {
	return vm.Page().TotalPages
}

// CurrentPage returns the zero-based page being shown.
func (vm *ViewModel) CurrentPage() int {
	return vm.Page().PageIndex
}

// Subscribe registers fn to be called with the derived page after every
// change. The returned function removes the subscription.
func (vm *ViewModel) Subscribe(fn func(Page)) (cancel func()) {
	id := vm.nextObs
	vm.nextObs++
	vm.observers[id] = fn
	return func() { delete(vm.observers, id) }
}

func (vm *ViewModel) apply(mutate func(*State)) {
	next := vm.state.clone()
	mutate(&next)
	vm.state = next
	vm.notify()
}

func (vm *ViewModel) notify() {
	if len(vm.observers) == 0 {
		return
	}
	p := vm.Page()
	ids := make([]int, 0, len(vm.observers))
	for id := range vm.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := vm.observers[id]; ok {
			fn(p)
		}
	}
}

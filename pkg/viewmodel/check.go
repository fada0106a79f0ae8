package viewmodel

import (
	"fmt"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// CheckSortable reports why SetSort(id) would be ignored: ErrColumnNotFound
// or ErrSortDisabled. It returns nil when the column can be sorted.
func (vm *ViewModel) CheckSortable(id string) error {
	c, ok := vm.Column(id)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrColumnNotFound, id)
	}
	if !c.Sortable {
		return fmt.Errorf("%w: %q", types.ErrSortDisabled, id)
	}
	return nil
}

// CheckFilterable reports why SetColumnFilter(id, v) would be ignored:
// ErrColumnNotFound or ErrFilterDisabled.
func (vm *ViewModel) CheckFilterable(id string) error {
	c, ok := vm.Column(id)
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrColumnNotFound, id)
	}
	if !c.Filterable {
		return fmt.Errorf("%w: %q", types.ErrFilterDisabled, id)
	}
	return nil
}

// FindRecord returns the record with the given id.
func (vm *ViewModel) FindRecord(id int) (types.User, error) {
	for _, u := range vm.records {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, fmt.Errorf("%w: %d", types.ErrUserNotFound, id)
}

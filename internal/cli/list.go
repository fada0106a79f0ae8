package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/usertable/internal/render"
	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

type listFlags struct {
	sort    string
	desc    bool
	filters []string
	search  string
	page    int
	all     bool
	columns []string
}

func newListCmd(a *app) *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the users table",
		Long: `List fetches the users and prints one page of the table.

Filters are case-insensitive substring matches. Several --filter flags are
ANDed; --search matches any filterable column.

Example:
  usertable list
  usertable list --sort name --desc
  usertable list --filter name=le --filter email=biz
  usertable list --search gwenborough --format json
  usertable list --columns name,email,company.name --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.sort, "sort", "", "sort by this column")
	fl.BoolVar(&f.desc, "desc", false, "sort descending")
	fl.StringArrayVar(&f.filters, "filter", nil, "column filter as column=value (repeatable)")
	fl.StringVar(&f.search, "search", "", "filter across all columns")
	fl.IntVar(&f.page, "page", 1, "page number, starting at 1")
	fl.BoolVar(&f.all, "all", false, "print every matching row on one page")
	fl.StringSliceVar(&f.columns, "columns", nil, "columns to print (default: all)")
	return cmd
}

func (a *app) runList(cmd *cobra.Command, f listFlags) error {
	vm := a.newViewModel()

	filters, err := parseFilters(vm, f.filters)
	if err != nil {
		return err
	}
	if f.sort != "" {
		if err := vm.CheckSortable(f.sort); err != nil {
			return err
		}
	} else if f.desc {
		return fmt.Errorf("--desc requires --sort")
	}
	if f.page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", f.page)
	}
	columns, err := selectColumns(vm, f.columns)
	if err != nil {
		return err
	}

	q, err := a.newQuery(cmd.Context())
	if err != nil {
		return err
	}
	snap := q.Fetch(cmd.Context())
	if snap.Status == types.StatusError {
		return snap.Err
	}

	if f.all {
		vm = viewmodel.New(lineColumns(), viewmodel.WithPageSize(max(len(snap.Rows()), 1)))
	}
	vm.SetRecords(snap.Rows())
	if f.sort != "" {
		vm.SetSort(f.sort)
		if f.desc {
			vm.SetSort(f.sort)
		}
	}
	for _, kv := range filters {
		vm.SetColumnFilter(kv[0], kv[1])
	}
	vm.SetGlobalFilter(f.search)
	vm.GoToPage(f.page - 1)

	return render.Table(cmd.OutOrStdout(), vm.Page(), columns, a.format)
}

// parseFilters splits column=value pairs and checks each column accepts a
// filter.
func parseFilters(vm *viewmodel.ViewModel, args []string) ([][2]string, error) {
	out := make([][2]string, 0, len(args))
	for _, arg := range args {
		col, value, ok := strings.Cut(arg, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid filter %q (expected column=value)", arg)
		}
		if err := vm.CheckFilterable(col); err != nil {
			return nil, err
		}
		out = append(out, [2]string{col, value})
	}
	return out, nil
}

// selectColumns returns the named columns in the given order, or all
// columns when ids is empty.
func selectColumns(vm *viewmodel.ViewModel, ids []string) ([]viewmodel.Column, error) {
	if len(ids) == 0 {
		return vm.Columns(), nil
	}
	out := make([]viewmodel.Column, 0, len(ids))
	for _, id := range ids {
		col, ok := vm.Column(strings.TrimSpace(id))
		if !ok {
			return nil, fmt.Errorf("%w: %q", types.ErrColumnNotFound, id)
		}
		out = append(out, col)
	}
	return out, nil
}

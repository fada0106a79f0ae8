package viewmodel

import (
	"strconv"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// Column ids of the default user table.
const (
	ColumnID             = "id"
	ColumnName           = "name"
	ColumnUsername       = "username"
	ColumnEmail          = "email"
	ColumnPhone          = "phone"
	ColumnWebsite        = "website"
	ColumnCompanyName    = "company.name"
	ColumnAddressStreet  = "address.street"
	ColumnAddressSuite   = "address.suite"
	ColumnAddressCity    = "address.city"
	ColumnAddressZipcode = "address.zipcode"
)

// DefaultColumns returns the standard user table: name and email sortable,
// every column filterable, nested fields shown as "N/A" when missing.
func DefaultColumns() []Column {
	return []Column{
		flat(ColumnName, "Name", true, func(u *types.User) string { return u.Name }),
		flat(ColumnUsername, "Username", false, func(u *types.User) string { return u.Username }),
		flat(ColumnEmail, "Email", true, func(u *types.User) string { return u.Email }),
		flat(ColumnPhone, "Phone", false, func(u *types.User) string { return u.Phone }),
		flat(ColumnWebsite, "Website", false, func(u *types.User) string { return u.Website }),
		company(ColumnCompanyName, "Company", func(c *types.Company) string { return c.Name }),
		address(ColumnAddressStreet, "Street", func(a *types.Address) string { return a.Street }),
		address(ColumnAddressSuite, "Suite", func(a *types.Address) string { return a.Suite }),
		address(ColumnAddressCity, "City", func(a *types.Address) string { return a.City }),
		address(ColumnAddressZipcode, "Zipcode", func(a *types.Address) string { return a.Zipcode }),
	}
}

// IDColumn returns a numerically sorted column over User.ID.
func IDColumn() Column {
	return Column{
		ID:     ColumnID,
		Header: "ID",
		Accessor: func(u *types.User) (string, bool) {
			return strconv.Itoa(u.ID), true
		},
		Sortable:   true,
		Filterable: true,
		Compare:    CompareNumeric,
	}
}

func flat(id, header string, sortable bool, get func(*types.User) string) Column {
	return Column{
		ID:     id,
		Header: header,
		Accessor: func(u *types.User) (string, bool) {
			return get(u), true
		},
		Sortable:   sortable,
		Filterable: true,
	}
}

func company(id, header string, get func(*types.Company) string) Column {
	return Column{
		ID:     id,
		Header: header,
		Accessor: func(u *types.User) (string, bool) {
			if u.Company == nil {
				return "", false
			}
			return get(u.Company), true
		},
		Filterable: true,
		Format:     NotAvailable,
	}
}

func address(id, header string, get func(*types.Address) string) Column {
	return Column{
		ID:     id,
		Header: header,
		Accessor: func(u *types.User) (string, bool) {
			if u.Address == nil {
				return "", false
			}
			return get(u.Address), true
		},
		Filterable: true,
		Format:     NotAvailable,
	}
}

package types

import "strings"

// User is one record fetched from the users endpoint. The JSON tags follow
// the wire shape served by the endpoint; unknown fields are ignored.
// Company and Address are pointers because either may be absent on the wire.
// Records are never modified after decoding.
type User struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Website  string   `json:"website"`
	Company  *Company `json:"company,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// Address is the postal address nested in a User.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// Company is the employer nested in a User.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// AddressLine joins street, suite, city and zipcode with ", ".
// Returns an empty string when the user has no address.
func (u *User) AddressLine() string {
	if u == nil || u.Address == nil {
		return ""
	}
	a := u.Address
	return strings.Join([]string{a.Street, a.Suite, a.City, a.Zipcode}, ", ")
}

package testutil

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// User builds a fully populated user whose fields derive from id and name.
func User(id int, name string) types.User {
	return types.User{
		ID:       id,
		Name:     name,
		Username: fmt.Sprintf("user%d", id),
		Email:    fmt.Sprintf("user%d@example.com", id),
		Phone:    fmt.Sprintf("555-01%02d", id),
		Website:  fmt.Sprintf("user%d.example.org", id),
		Company: &types.Company{
			Name:        fmt.Sprintf("Company %d", id),
			CatchPhrase: "Synergized client-driven paradigm",
			BS:          "aggregate real-time markets",
		},
		Address: &types.Address{
			Street:  fmt.Sprintf("%d Main St", id),
			Suite:   fmt.Sprintf("Apt. %d", id),
			City:    "Springfield",
			Zipcode: fmt.Sprintf("%05d", id),
		},
	}
}

// Users returns n users with ids 1..n named "User 01".."User n".
func Users(n int) []types.User {
	out := make([]types.User, n)
	for i := range out {
		out[i] = User(i+1, fmt.Sprintf("User %02d", i+1))
	}
	return out
}

// Named returns one user per name with ids 1..len(names).
func Named(names ...string) []types.User {
	out := make([]types.User, len(names))
	for i, name := range names {
		out[i] = User(i+1, name)
	}
	return out
}

// StaticSource is a DataSource returning fixed records or a fixed error.
// Calls counts FetchRecords invocations.
type StaticSource struct {
	Records []types.User
	Err     error
	Calls   int
}

// FetchRecords implements types.DataSource.
func (s *StaticSource) FetchRecords(ctx context.Context) ([]types.User, error) {
	s.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}

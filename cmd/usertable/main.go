// Command usertable browses a list of users as a sortable, filterable,
// paginated table.
package main

import "github.com/mesh-intelligence/usertable/internal/cli"

func main() {
	cli.Execute()
}

// Package render turns a derived table page, a single user and fetch
// failures into terminal output. Table output comes in several formats for
// piping; the detail view and error panel are styled with lipgloss and are
// shared with the interactive browser.
package render

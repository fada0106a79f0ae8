package render

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// Output formats accepted by Table.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// ErrFormatUnknown is returned for a format Table does not support.
var ErrFormatUnknown = errors.New("unknown output format")

// EmptyMessage is shown in place of rows when nothing matches.
const EmptyMessage = "No results."

// Sort indicators appended to the header of the sorted column.
const (
	ascendingMark  = "▲"
	descendingMark = "▼"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}
}

// ParseFormat normalizes a format name; "md" is accepted for markdown and
// the empty string means table.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case "md", FormatMarkdown:
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormatUnknown, s)
	}
}

// Table writes page in the given format.
func Table(w io.Writer, page viewmodel.Page, columns []viewmodel.Column, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case FormatJSON:
		return renderJSON(w, page)
	case FormatCSV:
		return renderCSV(w, page, columns)
	case FormatMarkdown:
		return renderMarkdown(w, page, columns)
	default:
		return renderTable(w, page, columns)
	}
}

// HeaderLabel returns the column header, marked when sort is on it.
func HeaderLabel(col viewmodel.Column, sort viewmodel.SortState) string {
	if sort.ColumnID != col.ID {
		return col.Header
	}
	if sort.Direction == viewmodel.Descending {
		return col.Header + " " + descendingMark
	}
	return col.Header + " " + ascendingMark
}

// Cells returns the display text of every column for u.
func Cells(columns []viewmodel.Column, u *types.User) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.Cell(u)
	}
	return out
}

// Footer describes the page position, e.g. "Page 2 of 3 · 25 users".
func Footer(page viewmodel.Page) string {
	current := page.PageIndex + 1
	if page.TotalPages == 0 {
		current = 0
	}
	noun := "users"
	if page.FilteredCount == 1 {
		noun = "user"
	}
	return fmt.Sprintf("Page %d of %d · %d %s", current, page.TotalPages, page.FilteredCount, noun)
}

func renderTable(w io.Writer, page viewmodel.Page, columns []viewmodel.Column) error {
	if len(page.Rows) == 0 {
		_, _ = fmt.Fprintln(w, EmptyMessage)
		return nil
	}

	style := table.StyleLight
	style.Format.Header = text.FormatDefault

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(style)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = HeaderLabel(col, page.Sort)
	}
	t.AppendHeader(header)

	for i := range page.Rows {
		cells := Cells(columns, &page.Rows[i])
		row := make(table.Row, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintln(w, Footer(page))
	return nil
}

// pageOutput is the JSON shape of a page.
type pageOutput struct {
	Page          int          `json:"page"`
	TotalPages    int          `json:"total_pages"`
	PageSize      int          `json:"page_size"`
	FilteredCount int          `json:"filtered_count"`
	Sort          *sortOutput  `json:"sort,omitempty"`
	Users         []types.User `json:"users"`
}

type sortOutput struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

func renderJSON(w io.Writer, page viewmodel.Page) error {
	out := pageOutput{
		Page:          page.PageIndex + 1,
		TotalPages:    page.TotalPages,
		PageSize:      page.PageSize,
		FilteredCount: page.FilteredCount,
		Users:         page.Rows,
	}
	if page.TotalPages == 0 {
		out.Page = 0
	}
	if out.Users == nil {
		out.Users = []types.User{}
	}
	if page.Sort.Active() {
		out.Sort = &sortOutput{Column: page.Sort.ColumnID, Direction: page.Sort.Direction.String()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, page viewmodel.Page, columns []viewmodel.Column) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range page.Rows {
		if err := cw.Write(Cells(columns, &page.Rows[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderMarkdown(w io.Writer, page viewmodel.Page, columns []viewmodel.Column) error {
	if len(page.Rows) == 0 {
		_, _ = fmt.Fprintln(w, EmptyMessage)
		return nil
	}

	header := make([]string, len(columns))
	seps := make([]string, len(columns))
	for i, col := range columns {
		header[i] = escapeMarkdown(HeaderLabel(col, page.Sort))
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | "))
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for i := range page.Rows {
		cells := Cells(columns, &page.Rows[i])
		for j, c := range cells {
			cells[j] = escapeMarkdown(c)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", Footer(page))
	return nil
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

package render

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// Columns lists the column ids with their capabilities.
func Columns(w io.Writer, columns []viewmodel.Column) {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(style)
	t.AppendHeader(table.Row{"Column", "Header", "Sortable", "Filterable"})
	for _, col := range columns {
		t.AppendRow(table.Row{col.ID, col.Header, yesNo(col.Sortable), yesNo(col.Filterable)})
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

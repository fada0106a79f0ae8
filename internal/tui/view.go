package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/usertable/internal/render"
	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// Title heads every screen of the browser.
const Title = "User Management Table"

var (
	accent        = lipgloss.Color("12")
	muted         = lipgloss.Color("8")
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	spinnerStyle  = lipgloss.NewStyle().Foreground(accent)
	filterStyle   = lipgloss.NewStyle().Foreground(muted)
	activeStyle   = lipgloss.NewStyle().Foreground(accent).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(muted).Faint(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return s
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")

	switch {
	case m.snap.Status == types.StatusError:
		b.WriteString(render.ErrorPanelString(m.snap.Err))
		b.WriteString("\n\n")
		b.WriteString(filterStyle.Render("r retry · q quit"))
		return b.String()

	case m.mode == modeDetail:
		b.WriteString(render.DetailString(m.detail))
		b.WriteString("\n\n")
		b.WriteString(filterStyle.Render("esc back · q quit"))
		return b.String()
	}

	b.WriteString(m.filterBar())
	b.WriteString("\n\n")

	if m.snap.Status == types.StatusPending {
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading users…\n")
		b.WriteString(m.table.View())
		return b.String()
	}

	page := m.view.page
	if len(page.Rows) == 0 {
		b.WriteString(render.EmptyMessage)
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(pager(page))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// filterBar shows the name, email and global filters. The one being edited
// is replaced by the text input.
func (m Model) filterBar() string {
	targets := []filterTarget{nameFilter, emailFilter, globalFilter}
	parts := make([]string, len(targets))
	for i, t := range targets {
		if m.mode == modeFilter && m.target == t {
			parts[i] = m.input.View()
			continue
		}
		v := m.vm.State().GlobalFilter
		if t.column != "" {
			v = m.vm.ColumnFilter(t.column)
		}
		if v == "" {
			parts[i] = filterStyle.Render(t.placeholder)
		} else {
			parts[i] = activeStyle.Render(t.prompt + v)
		}
	}
	return strings.Join(parts, "   ")
}

func pager(page viewmodel.Page) string {
	prev, next := disabledStyle.Render("‹ Previous"), disabledStyle.Render("Next ›")
	if page.CanPreviousPage {
		prev = activeStyle.Render("‹ Previous")
	}
	if page.CanNextPage {
		next = activeStyle.Render("Next ›")
	}
	return render.Footer(page) + "   " + prev + "  " + next
}

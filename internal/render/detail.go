package render

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// DefaultErrorMessage is shown when a failure carries no message.
const DefaultErrorMessage = "An error occurred while fetching users."

// placeholder is the block used for skeleton text.
const placeholder = "░"

// detailFieldCount is the number of label/value lines in the detail view.
const detailFieldCount = 6

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	labelStyle      = lipgloss.NewStyle().Bold(true).Width(10)
	boxStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errorBoxStyle   = boxStyle.BorderForeground(lipgloss.Color("9"))
	errorTitleStyle = titleStyle.Foreground(lipgloss.Color("9"))
	skeletonStyle   = lipgloss.NewStyle().Faint(true)
)

// Detail writes the read-only detail view of u. A nil user renders the
// loading skeleton.
func Detail(w io.Writer, u *types.User) error {
	_, err := io.WriteString(w, DetailString(u)+"\n")
	return err
}

// DetailString renders the detail view of u. Missing company or address
// show as "N/A".
func DetailString(u *types.User) string {
	if u == nil {
		return detailSkeleton()
	}

	company := "N/A"
	if u.Company != nil && u.Company.Name != "" {
		company = u.Company.Name
	}
	address := viewmodel.NotAvailable(u.AddressLine(), u.Address != nil)

	lines := []string{
		titleStyle.Render(u.Name),
		"",
		field("Username", u.Username),
		field("Email", u.Email),
		field("Phone", u.Phone),
		field("Website", u.Website),
		field("Company", company),
		field("Address", address),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label+":"), value)
}

func detailSkeleton() string {
	lines := []string{skeletonStyle.Render(bar(20)), ""}
	for range detailFieldCount {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(skeletonStyle.Render(bar(6))),
			skeletonStyle.Render(bar(24)),
		))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// ErrorPanel writes the static error panel for err.
func ErrorPanel(w io.Writer, err error) error {
	_, werr := io.WriteString(w, ErrorPanelString(err)+"\n")
	return werr
}

// ErrorPanelString renders the error panel for err.
func ErrorPanelString(err error) string {
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return errorBoxStyle.Render(errorTitleStyle.Render("Error") + "\n" + msg)
}

// Skeleton returns rows placeholder rows sized to the column headers, shown
// while records are loading.
func Skeleton(columns []viewmodel.Column, rows int) [][]string {
	out := make([][]string, max(rows, 0))
	for i := range out {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = bar(max(utf8.RuneCountInString(col.Header), 6))
		}
		out[i] = cells
	}
	return out
}

func bar(n int) string {
	return strings.Repeat(placeholder, n)
}

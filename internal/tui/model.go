// Package tui implements the full-screen user browser on bubbletea.
package tui

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/usertable/internal/render"
	"github.com/mesh-intelligence/usertable/internal/source"
	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// skeletonRows is the number of placeholder rows shown while loading.
const skeletonRows = 5

// maxColumnWidth caps a table column; longer cells are truncated.
const maxColumnWidth = 32

// headerHeight is the header line plus its bottom border.
const headerHeight = 2

type mode int

const (
	modeTable mode = iota
	modeFilter
	modeDetail
)

// filterTarget is the field a filter edit writes to. An empty column means
// the global filter.
type filterTarget struct {
	column      string
	prompt      string
	placeholder string
}

var (
	nameFilter   = filterTarget{column: viewmodel.ColumnName, prompt: "Name: ", placeholder: "Filter names..."}
	emailFilter  = filterTarget{column: viewmodel.ColumnEmail, prompt: "Email: ", placeholder: "Filter emails..."}
	globalFilter = filterTarget{prompt: "Search: ", placeholder: "Search all columns..."}
)

// fetchedMsg carries the settled result of a fetch.
type fetchedMsg struct {
	snap source.Snapshot
}

// pageView holds the last page the view-model published. It is shared by
// every copy of Model.
type pageView struct {
	page viewmodel.Page
}

// Model is the bubbletea model of the browser. It renders the Query's state
// and drives the ViewModel from key presses.
type Model struct {
	ctx    context.Context
	query  *source.Query
	vm     *viewmodel.ViewModel
	logger *slog.Logger

	keys    keyMap
	table   table.Model
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	view   *pageView
	snap   source.Snapshot
	mode   mode
	target filterTarget
	detail *types.User
	width  int
	height int
}

// New creates the browser over q and vm. vm is fed from q's results.
func New(ctx context.Context, q *source.Query, vm *viewmodel.ViewModel, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.CharLimit = 64

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	tbl := table.New(
		table.WithFocused(true),
		table.WithKeyMap(tableKeyMap()),
		table.WithStyles(tableStyles()),
	)

	view := &pageView{page: vm.Page()}
	vm.Subscribe(func(p viewmodel.Page) { view.page = p })

	m := Model{
		view:    view,
		ctx:     ctx,
		query:   q,
		vm:      vm,
		logger:  logger,
		keys:    defaultKeyMap(),
		table:   tbl,
		input:   ti,
		spinner: s,
		help:    help.New(),
		snap:    q.Snapshot(),
	}
	m.syncTable()
	return m
}

// Init starts the spinner and the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	ctx, q := m.ctx, m.query
	return func() tea.Msg {
		return fetchedMsg{snap: q.Fetch(ctx)}
	}
}

func (m Model) refetch() tea.Cmd {
	ctx, q := m.ctx, m.query
	return func() tea.Msg {
		return fetchedMsg{snap: q.Refetch(ctx)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.syncTable()
		return m, nil

	case fetchedMsg:
		return m.settle(msg.snap), nil

	case spinner.TickMsg:
		if m.snap.Status != types.StatusPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

// settle applies a fetch result. Pending snapshots and results older than
// the one shown are dropped: they come from a fetch that a refetch
// superseded.
func (m Model) settle(snap source.Snapshot) Model {
	if snap.Status == types.StatusPending {
		return m
	}
	if m.snap.Status != types.StatusPending && snap.Generation < m.snap.Generation {
		return m
	}
	m.snap = snap
	m.vm.SetRecords(snap.Rows())
	if snap.Status == types.StatusError {
		m.logger.Debug("browser showing fetch error", slog.Any("error", snap.Err))
		m.mode = modeTable
		m.detail = nil
		m.input.Blur()
	}
	m.syncTable()
	return m
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.snap = source.Snapshot{Status: types.StatusPending, Generation: m.snap.Generation}
		m.vm.SetRecords(nil)
		m.syncTable()
		return m, tea.Batch(m.spinner.Tick, m.refetch())
	}

	if m.snap.Status != types.StatusSuccess {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.vm.NextPage()
	case key.Matches(msg, m.keys.Prev):
		m.vm.PreviousPage()
	case key.Matches(msg, m.keys.SortName):
		m.vm.SetSort(viewmodel.ColumnName)
	case key.Matches(msg, m.keys.SortEmail):
		m.vm.SetSort(viewmodel.ColumnEmail)
	case key.Matches(msg, m.keys.FilterName):
		return m.startFilter(nameFilter)
	case key.Matches(msg, m.keys.FilterEmail):
		return m.startFilter(emailFilter)
	case key.Matches(msg, m.keys.Search):
		return m.startFilter(globalFilter)
	case key.Matches(msg, m.keys.Detail):
		if u, ok := m.selected(); ok {
			m.detail = &u
			m.mode = modeDetail
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.syncTable()
	return m, nil
}

func (m Model) startFilter(t filterTarget) (tea.Model, tea.Cmd) {
	m.mode = modeFilter
	m.target = t
	m.input.Prompt = t.prompt
	m.input.Placeholder = t.placeholder
	if t.column == "" {
		m.input.SetValue(m.vm.State().GlobalFilter)
	} else {
		m.input.SetValue(m.vm.ColumnFilter(t.column))
	}
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		m.mode = modeTable
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		if m.target.column == "" {
			m.vm.SetGlobalFilter(v)
		} else {
			m.vm.SetColumnFilter(m.target.column, v)
		}
		m.syncTable()
	}
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Detail):
		m.mode = modeTable
		m.detail = nil
	}
	return m, nil
}

// selected returns the user under the table cursor.
func (m Model) selected() (types.User, bool) {
	rows := m.view.page.Rows
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return types.User{}, false
	}
	return rows[i], true
}

// syncTable rebuilds the table columns and rows from the current state.
func (m *Model) syncTable() {
	columns := m.vm.Columns()
	page := m.view.page

	var cells [][]string
	if m.snap.Status == types.StatusPending {
		cells = render.Skeleton(columns, skeletonRows)
	} else {
		cells = make([][]string, len(page.Rows))
		for i := range page.Rows {
			cells[i] = render.Cells(columns, &page.Rows[i])
		}
	}

	cols := make([]table.Column, len(columns))
	for i, col := range columns {
		title := render.HeaderLabel(col, page.Sort)
		width := utf8.RuneCountInString(title)
		for _, row := range cells {
			width = max(width, utf8.RuneCountInString(row[i]))
		}
		cols[i] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
	}

	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}

	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetHeight(max(len(rows), 1) + headerHeight)
	if m.width > 0 {
		m.table.SetWidth(m.width)
	}
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

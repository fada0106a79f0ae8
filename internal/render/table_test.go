package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/usertable/internal/testutil"
	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

func twoColumns(t *testing.T) []viewmodel.Column {
	t.Helper()
	vm := viewmodel.New(nil)
	name, ok := vm.Column(viewmodel.ColumnName)
	require.True(t, ok)
	company, ok := vm.Column(viewmodel.ColumnCompanyName)
	require.True(t, ok)
	return []viewmodel.Column{name, company}
}

func samplePage(t *testing.T, sort viewmodel.SortState) viewmodel.Page {
	t.Helper()
	users := testutil.Named("Ada", "Grace", "Linus")
	users[1].Company = nil
	state := viewmodel.DefaultState()
	state.Sort = sort
	return viewmodel.Derive(users, twoColumns(t), state)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: "csv", want: FormatCSV},
		{in: "md", want: FormatMarkdown},
		{in: " markdown ", want: FormatMarkdown},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFormatUnknown)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderLabel(t *testing.T) {
	col := viewmodel.Column{ID: "name", Header: "Name"}

	assert.Equal(t, "Name", HeaderLabel(col, viewmodel.SortState{}))
	assert.Equal(t, "Name", HeaderLabel(col, viewmodel.SortState{ColumnID: "email"}))
	assert.Equal(t, "Name ▲", HeaderLabel(col, viewmodel.SortState{ColumnID: "name"}))
	assert.Equal(t, "Name ▼", HeaderLabel(col, viewmodel.SortState{ColumnID: "name", Direction: viewmodel.Descending}))
}

func TestCellsUseFormatters(t *testing.T) {
	u := testutil.User(1, "Ada")
	u.Company = nil
	assert.Equal(t, []string{"Ada", "N/A"}, Cells(twoColumns(t), &u))
}

func TestFooter(t *testing.T) {
	tests := []struct {
		name string
		page viewmodel.Page
		want string
	}{
		{
			name: "middle page",
			page: viewmodel.Page{PageIndex: 1, TotalPages: 3, FilteredCount: 25},
			want: "Page 2 of 3 · 25 users",
		},
		{
			name: "single user",
			page: viewmodel.Page{PageIndex: 0, TotalPages: 1, FilteredCount: 1},
			want: "Page 1 of 1 · 1 user",
		},
		{
			name: "empty",
			page: viewmodel.Page{},
			want: "Page 0 of 0 · 0 users",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Footer(tt.page))
		})
	}
}

func TestTableText(t *testing.T) {
	var buf bytes.Buffer
	page := samplePage(t, viewmodel.SortState{ColumnID: viewmodel.ColumnName, Direction: viewmodel.Descending})
	require.NoError(t, Table(&buf, page, twoColumns(t), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Name ▼")
	assert.Contains(t, out, "Company")
	assert.Contains(t, out, "Company 1")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Page 1 of 1 · 3 users")
	assert.Less(t, strings.Index(out, "Linus"), strings.Index(out, "Ada"), "rows follow the page order")
}

func TestTableEmpty(t *testing.T) {
	page := viewmodel.Derive(nil, twoColumns(t), viewmodel.DefaultState())

	for _, format := range []string{FormatTable, FormatMarkdown} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Table(&buf, page, twoColumns(t), format))
			assert.Equal(t, "No results.\n", buf.String())
		})
	}
}

func TestTableJSON(t *testing.T) {
	var buf bytes.Buffer
	page := samplePage(t, viewmodel.SortState{ColumnID: viewmodel.ColumnName})
	require.NoError(t, Table(&buf, page, twoColumns(t), FormatJSON))

	var got struct {
		Page          int `json:"page"`
		TotalPages    int `json:"total_pages"`
		FilteredCount int `json:"filtered_count"`
		Sort          struct {
			Column    string `json:"column"`
			Direction string `json:"direction"`
		} `json:"sort"`
		Users []types.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 3, got.FilteredCount)
	assert.Equal(t, "name", got.Sort.Column)
	assert.Equal(t, "asc", got.Sort.Direction)
	require.Len(t, got.Users, 3)
	assert.Equal(t, "Ada", got.Users[0].Name)
	assert.Nil(t, got.Users[1].Company)
}

func TestTableJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	page := viewmodel.Derive(nil, twoColumns(t), viewmodel.DefaultState())
	require.NoError(t, Table(&buf, page, twoColumns(t), FormatJSON))
	assert.Contains(t, buf.String(), `"users": []`)
	assert.NotContains(t, buf.String(), `"sort"`)
}

func TestTableCSV(t *testing.T) {
	users := testutil.Named(`Smith, "Jr"`)
	page := viewmodel.Derive(users, twoColumns(t), viewmodel.DefaultState())

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, page, twoColumns(t), FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Company"},
		{`Smith, "Jr"`, "Company 1"},
	}, records)
}

func TestTableMarkdown(t *testing.T) {
	users := testutil.Named("Pipe|Name")
	page := viewmodel.Derive(users, twoColumns(t), viewmodel.DefaultState())

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, page, twoColumns(t), "md"))
	assert.Equal(t, "| Name | Company |\n| --- | --- |\n| Pipe\\|Name | Company 1 |\n\nPage 1 of 1 · 1 user\n", buf.String())
}

func TestTableUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, viewmodel.Page{}, nil, "yaml")
	assert.ErrorIs(t, err, ErrFormatUnknown)
	assert.Empty(t, buf.String())
}

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

func TestColumns(t *testing.T) {
	var buf bytes.Buffer
	Columns(&buf, viewmodel.DefaultColumns())

	out := buf.String()
	assert.Contains(t, out, "Filterable")
	assert.Contains(t, out, "company.name")

	var nameLine, phoneLine string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, " name "):
			nameLine = line
		case strings.Contains(line, " phone "):
			phoneLine = line
		}
	}
	assert.Regexp(t, `name\s+│ Name\s+│ yes\s+│ yes`, nameLine)
	assert.Regexp(t, `phone\s+│ Phone\s+│ no\s+│ yes`, phoneLine)
}

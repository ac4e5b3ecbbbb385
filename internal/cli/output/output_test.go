package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatTable},
		{input: "  table ", want: FormatTable},
		{input: "JSON", want: FormatJSON},
		{input: "yml", want: FormatYAML},
		{input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type listing struct {
	Files []string `json:"files" yaml:"files"`
}

func (l listing) Headers() []string { return []string{"Name"} }
func (l listing) Rows() [][]string {
	rows := make([][]string, 0, len(l.Files))
	for _, f := range l.Files {
		rows = append(rows, []string{f})
	}
	return rows
}

func TestPrinter_Print(t *testing.T) {
	data := listing{Files: []string{"a.png", "b.jpg"}}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(data))
	assert.Contains(t, buf.String(), "NAME")
	assert.Contains(t, buf.String(), "b.jpg")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data))
	assert.JSONEq(t, `{"files":["a.png","b.jpg"]}`, buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(data))
	assert.Contains(t, buf.String(), "files:")
	assert.Contains(t, buf.String(), "- b.jpg")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, buf.String())
}

func TestPrinter_Messages(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable, false)
	p.Success("done")
	p.Warning("careful")
	assert.Equal(t, "done\ncareful\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, FormatTable, true).Success("done")
	assert.Equal(t, "\033[32mdone\033[0m\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, FormatJSON, false).Success("done")
	assert.Empty(t, buf.String())
}

func TestPrintKeyValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintKeyValues(&buf, [][2]string{{"Name", "a.png"}, {"Size", "500 B"}}))
	assert.Contains(t, buf.String(), "Name")
	assert.Contains(t, buf.String(), "a.png")
	assert.Contains(t, buf.String(), "500 B")
}

func TestTableData(t *testing.T) {
	table := NewTableData("Name", "Size")
	assert.Empty(t, table.Rows())
	table.AddRow("a.png", "1")
	assert.Equal(t, [][]string{{"a.png", "1"}}, table.Rows())
	assert.Equal(t, []string{"Name", "Size"}, table.Headers())
}

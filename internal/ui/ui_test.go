package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevErr, prevColor := Out, Err, color.NoColor
	Out, Err, color.NoColor = &buf, &buf, true
	t.Cleanup(func() { Out, Err, color.NoColor = prevOut, prevErr, prevColor })
	return &buf
}

func TestSQL(t *testing.T) {
	buf := capture(t)
	SQL("SELECT * FROM books WHERE id = ?", []any{int64(1), "x", nil, []byte{0xAB}})
	assert.Contains(t, buf.String(), "SELECT * FROM books WHERE id = ?")
	assert.Contains(t, buf.String(), `[1, "x", NULL, x'ab']`)
}

func TestHighlightSQL_NoColor(t *testing.T) {
	capture(t)
	assert.Equal(t, "DELETE FROM t", HighlightSQL("DELETE FROM t"))
}

func TestTable(t *testing.T) {
	buf := capture(t)
	require.NoError(t, Table([]string{"column", "type"}, [][]string{{"id", "integer"}, {"title", "text"}}))
	out := buf.String()
	assert.Contains(t, out, "column")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "integer")
}

func TestMessages(t *testing.T) {
	buf := capture(t)
	Success("pushed %d tables", 2)
	Error("boom")
	Warning("careful")
	Info("fyi")
	out := buf.String()
	assert.Contains(t, out, "pushed 2 tables")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "fyi")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# books\n\n| column | type |\n|---|---|\n| id | integer |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "books")
	assert.Contains(t, out, "integer")
}

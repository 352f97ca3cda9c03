package mapper_test

import (
	"errors"
	"testing"
	"time"

	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/query/mapper"
	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var books = schema.MustDefineTable("books",
	schema.Integer("id", schema.PrimaryKey()),
	schema.Text("title"),
	schema.Boolean("deleted", schema.Nullable()),
	schema.Timestamp("lastModified"),
	schema.Blob("cover", schema.Nullable()),
)

func TestDecodeRow(t *testing.T) {
	raw := map[string]any{
		"id":           int64(3),
		"title":        []byte("Gatsby"),
		"deleted":      int64(1),
		"lastModified": int64(1700000000000),
		"cover":        nil,
		"extra":        "ignored",
	}

	rec, err := mapper.DecodeRow(books, raw, books.ColumnNames())
	require.NoError(t, err)

	assert.Equal(t, mapper.Record{
		"id":           int64(3),
		"title":        "Gatsby",
		"deleted":      true,
		"lastModified": time.UnixMilli(1700000000000).UTC(),
		"cover":        nil,
	}, rec)
}

func TestDecodeRow_TextProtocolRow(t *testing.T) {
	// Every column arrives as bytes from MySQL when a query has no binds.
	raw := map[string]any{
		"id":           []byte("3"),
		"title":        []byte("Dune"),
		"deleted":      []byte("0"),
		"lastModified": []byte("1700000000000"),
		"cover":        []byte{0xCA, 0xFE},
	}

	rec, err := mapper.DecodeRow(books, raw, books.ColumnNames())
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{
		"id":           int64(3),
		"title":        "Dune",
		"deleted":      false,
		"lastModified": time.UnixMilli(1700000000000).UTC(),
		"cover":        []byte{0xCA, 0xFE},
	}, rec)
}

func TestDecodeRow_Projection(t *testing.T) {
	rec, err := mapper.DecodeRow(books, map[string]any{"deleted": int64(0), "id": int64(1)}, []string{"deleted", "id"})
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"deleted": false, "id": int64(1)}, rec)
}

func TestDecodeRow_StringForInteger(t *testing.T) {
	_, err := mapper.DecodeRow(books, map[string]any{"id": "3", "deleted": int64(1)}, []string{"id", "deleted"})
	require.Error(t, err)

	var decErr *codec.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "id", decErr.Column)
	assert.Equal(t, "3", decErr.Value)
	assert.ErrorIs(t, err, codec.ErrTypeMismatch)
}

func TestDecodeRow_MissingField(t *testing.T) {
	_, err := mapper.DecodeRow(books, map[string]any{"id": int64(1)}, []string{"id", "title"})
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrMissingField)
	assert.Contains(t, err.Error(), `"title"`)
}

func TestDecodeRow_NullInRequiredColumn(t *testing.T) {
	_, err := mapper.DecodeRow(books, map[string]any{"title": nil}, []string{"title"})
	assert.ErrorIs(t, err, codec.ErrNull)
}

func TestDecodeRow_UnknownColumn(t *testing.T) {
	_, err := mapper.DecodeRow(books, map[string]any{"author": "x"}, []string{"author"})
	assert.ErrorIs(t, err, schema.ErrUnknownColumn)
}

func TestDecodeRows(t *testing.T) {
	rows := []map[string]any{
		{"id": int64(1), "deleted": int64(0)},
		{"id": int64(2), "deleted": int64(1)},
	}
	recs, err := mapper.DecodeRows(books, rows, []string{"id", "deleted"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, true, recs[1]["deleted"])

	rows = append(rows, map[string]any{"id": int64(3), "deleted": int64(7)})
	_, err = mapper.DecodeRows(books, rows, []string{"id", "deleted"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.ErrorIs(t, err, codec.ErrOutOfRange)
}

func TestDecodePositional(t *testing.T) {
	rec, err := mapper.DecodePositional(books, []any{int64(9), "t"}, []string{"id", "title"})
	require.NoError(t, err)
	assert.Equal(t, mapper.Record{"id": int64(9), "title": "t"}, rec)

	_, err = mapper.DecodePositional(books, []any{int64(9)}, []string{"id", "title"})
	assert.ErrorIs(t, err, codec.ErrMissingField)

	_, err = mapper.DecodePositional(books, []any{int64(9), "t", int64(1)}, []string{"id", "title"})
	assert.ErrorIs(t, err, codec.ErrTypeMismatch)
}

package builder_test

import (
	"testing"
	"time"

	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/query/builder"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var books = schema.MustDefineTable("books",
	schema.Integer("id", schema.PrimaryKey()),
	schema.Text("title"),
	schema.Boolean("deleted", schema.Nullable()),
	schema.Timestamp("lastModified", schema.Default(time.UnixMilli(0).UTC())),
)

func idEq(v any) domain.Expr {
	return domain.Eq(domain.Column("id"), domain.Value(v))
}

func TestSelect_Build(t *testing.T) {
	q, err := builder.Select(books, "id", "title").
		Where(idEq(1)).
		OrderBy("title", domain.Desc).
		Limit(10).
		Offset(5).
		Build()
	require.NoError(t, err)

	assert.Same(t, books, q.Table)
	assert.Equal(t, []string{"id", "title"}, q.Projection)
	assert.Equal(t, idEq(1), q.Where)
	assert.Equal(t, []domain.OrderBy{{Column: "title", Direction: domain.Desc}}, q.OrderBy)
	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, *q.Limit)
	require.NotNil(t, q.Offset)
	assert.Equal(t, 5, *q.Offset)
}

func TestSelect_Columns_ExpandsStar(t *testing.T) {
	q, err := builder.Select(books).Build()
	require.NoError(t, err)
	assert.Empty(t, q.Projection)
	assert.Equal(t, []string{"id", "title", "deleted", "lastModified"}, q.Columns())
}

func TestSelect_RepeatedWhereIsAnded(t *testing.T) {
	deleted := domain.Eq(domain.Column("deleted"), domain.Value(false))

	q, err := builder.Select(books).Where(idEq(1)).Where(deleted).Build()
	require.NoError(t, err)
	assert.Equal(t, domain.And(idEq(1), deleted), q.Where)
}

func TestBuilder_Branching(t *testing.T) {
	base := builder.Select(books, "id").OrderBy("id", domain.Asc)

	first := base.OrderBy("title", domain.Desc)
	second := base.OrderBy("deleted", domain.Asc)

	q1, err := first.Build()
	require.NoError(t, err)
	q2, err := second.Build()
	require.NoError(t, err)
	q0, err := base.Build()
	require.NoError(t, err)

	assert.Len(t, q0.OrderBy, 1)
	assert.Equal(t, "title", q1.OrderBy[1].Column)
	assert.Equal(t, "deleted", q2.OrderBy[1].Column)

	q1.OrderBy[0].Column = "mutated"
	q0Again, _ := base.Build()
	assert.Equal(t, "id", q0Again.OrderBy[0].Column)
}

func TestBuilder_UnknownColumn(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"projection", func() error { _, err := builder.Select(books, "author").Build(); return err }},
		{"predicate", func() error {
			_, err := builder.Select(books).Where(domain.Eq(domain.Column("author"), domain.Value("x"))).Build()
			return err
		}},
		{"nested predicate", func() error {
			_, err := builder.DeleteFrom(books).Where(domain.Or(idEq(1), domain.Negate(domain.Null("author")))).Build()
			return err
		}},
		{"order by", func() error { _, err := builder.Select(books).OrderBy("author", domain.Asc).Build(); return err }},
		{"insert value", func() error {
			_, err := builder.InsertInto(books).Values(map[string]any{"id": 1, "title": "x", "author": "y"}).Build()
			return err
		}},
		{"update assignment", func() error { _, err := builder.Update(books).Set("author", "x").Build(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnknownColumn)
			assert.True(t, builder.IsBuildError(err))
			assert.Contains(t, err.Error(), `"author"`)
		})
	}
}

func TestBuilder_InvalidValues(t *testing.T) {
	_, err := builder.Select(books).Where(domain.Eq(domain.Column("deleted"), domain.Value("yes"))).Build()
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.ErrorIs(t, err, codec.ErrTypeMismatch)

	_, err = builder.Select(books).Where(domain.Eq(domain.Value(1), domain.Column("title"))).Build()
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = builder.Select(books).Where(idEq(nil)).Build()
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = builder.InsertInto(books).Values(map[string]any{"title": nil}).Build()
	assert.ErrorIs(t, err, codec.ErrNull)

	_, err = builder.Select(books).Limit(-1).Build()
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = builder.Select(books).Where(nil).Build()
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestBuilder_Conflicts(t *testing.T) {
	_, err := builder.Update(books).Set("title", "a").Set("title", "b").Build()
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = builder.InsertInto(books).
		Values(map[string]any{"title": "a"}).
		Values(map[string]any{"title": "b"}).
		Build()
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = builder.Select(books, "id", "id").Build()
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBuilder_FirstErrorSticks(t *testing.T) {
	_, err := builder.Select(books, "nope").Where(domain.Eq(domain.Column("other"), domain.Value(1))).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestInsert_Build(t *testing.T) {
	values := map[string]any{"id": 2, "title": "X", "deleted": true}
	q, err := builder.InsertInto(books).Values(values).Build()
	require.NoError(t, err)
	assert.Equal(t, values, q.Values)

	values["title"] = "changed"
	assert.Equal(t, "X", q.Values["title"])
}

func TestInsert_RequiredColumn(t *testing.T) {
	_, err := builder.InsertInto(books).Values(map[string]any{"id": 1}).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingValue)
	assert.Contains(t, err.Error(), `"title"`)
}

func TestUpdate_RequiresAssignments(t *testing.T) {
	_, err := builder.Update(books).Where(idEq(1)).Build()
	assert.ErrorIs(t, err, domain.ErrEmpty)
}

func TestBuilder_NilTable(t *testing.T) {
	_, err := builder.Select(nil).Build()
	assert.ErrorIs(t, err, domain.ErrInconsistent)

	_, err = builder.DeleteFrom(nil).Where(idEq(1)).Build()
	assert.ErrorIs(t, err, domain.ErrInconsistent)
}

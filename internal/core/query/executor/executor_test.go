package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/satishbabariya/tableshim/internal/adapters/database"
	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/materializer"
	"github.com/satishbabariya/tableshim/internal/core/query/builder"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/query/executor"
	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var books = schema.MustDefineTable("books",
	schema.Integer("id", schema.PrimaryKey()),
	schema.Text("title"),
	schema.Boolean("deleted", schema.Nullable()),
	schema.Timestamp("lastModified", schema.Default(time.UnixMilli(0).UTC())),
	schema.Real("rating", schema.Nullable()),
	schema.Blob("cover", schema.Nullable()),
)

func setup(t *testing.T) *executor.Executor {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(database.Config{Dialect: domain.SQLite, URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { _ = db.Disconnect(ctx) })

	ex := executor.New(db)
	s, err := schema.NewSchema(books)
	require.NoError(t, err)
	require.NoError(t, ex.CreateTables(ctx, s))
	return ex
}

func insertBook(t *testing.T, ex *executor.Executor, values map[string]any) {
	t.Helper()
	ins, err := builder.InsertInto(books).Values(values).Build()
	require.NoError(t, err)
	n, err := ex.Exec(context.Background(), ins)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestExecutor_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ex := setup(t)

	modified := time.UnixMilli(1700000000123).UTC()
	insertBook(t, ex, map[string]any{
		"id":           int64(1),
		"title":        "Dune",
		"deleted":      false,
		"lastModified": modified,
		"rating":       4.5,
		"cover":        []byte{0xCA, 0xFE},
	})
	insertBook(t, ex, map[string]any{"id": int64(2), "title": "Emma"})

	sel, err := builder.Select(books).OrderBy("id", domain.Asc).Build()
	require.NoError(t, err)

	recs, err := ex.Query(ctx, sel)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, int64(1), recs[0]["id"])
	assert.Equal(t, "Dune", recs[0]["title"])
	assert.Equal(t, false, recs[0]["deleted"])
	assert.Equal(t, modified, recs[0]["lastModified"])
	assert.Equal(t, 4.5, recs[0]["rating"])
	assert.Equal(t, []byte{0xCA, 0xFE}, recs[0]["cover"])

	assert.Nil(t, recs[1]["deleted"])
	assert.Equal(t, time.UnixMilli(0).UTC(), recs[1]["lastModified"])
}

func TestExecutor_QueryWhere(t *testing.T) {
	ctx := context.Background()
	ex := setup(t)
	insertBook(t, ex, map[string]any{"id": int64(1), "title": "A"})
	insertBook(t, ex, map[string]any{"id": int64(2), "title": "B", "deleted": true})
	insertBook(t, ex, map[string]any{"id": int64(3), "title": "C"})

	sel, err := builder.Select(books, "id", "title").
		Where(domain.AnyOf(
			domain.Eq(domain.Column("id"), domain.Value(1)),
			domain.Eq(domain.Column("deleted"), domain.Value(true)),
		)).
		OrderBy("id", domain.Desc).
		Build()
	require.NoError(t, err)

	recs, err := ex.Query(ctx, sel)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, map[string]any{"id": int64(2), "title": "B"}, map[string]any(recs[0]))
	assert.Equal(t, int64(1), recs[1]["id"])
}

func TestExecutor_First(t *testing.T) {
	ctx := context.Background()
	ex := setup(t)
	insertBook(t, ex, map[string]any{"id": int64(7), "title": "Ulysses"})

	sel, err := builder.Select(books, "title").Where(domain.Eq(domain.Column("id"), domain.Value(7))).Build()
	require.NoError(t, err)
	rec, err := ex.First(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, "Ulysses", rec["title"])

	sel, err = builder.Select(books).Where(domain.Eq(domain.Column("id"), domain.Value(8))).Build()
	require.NoError(t, err)
	_, err = ex.First(ctx, sel)
	assert.ErrorIs(t, err, executor.ErrNotFound)
}

func TestExecutor_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	ex := setup(t)
	insertBook(t, ex, map[string]any{"id": int64(1), "title": "A"})
	insertBook(t, ex, map[string]any{"id": int64(2), "title": "B"})

	upd, err := builder.Update(books).Set("deleted", true).Where(domain.Gt(domain.Column("id"), domain.Value(1))).Build()
	require.NoError(t, err)
	n, err := ex.Exec(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	del, err := builder.DeleteFrom(books).Where(domain.Eq(domain.Column("deleted"), domain.Value(true))).Build()
	require.NoError(t, err)
	n, err = ex.Exec(ctx, del)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sel, _ := builder.Select(books, "id").Build()
	recs, err := ex.Query(ctx, sel)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0]["id"])

	_, err = ex.Exec(ctx, sel)
	assert.ErrorIs(t, err, materializer.ErrReadOnly)
}

func TestExecutor_DecodeFailure(t *testing.T) {
	ctx := context.Background()
	ex := setup(t)

	// A row written outside the typed surface with an out-of-range boolean.
	insertBook(t, ex, map[string]any{"id": int64(1), "title": "A"})
	loose := schema.MustDefineTable("books",
		schema.Integer("id", schema.PrimaryKey()),
		schema.Integer("deleted", schema.Nullable()),
	)
	upd, err := builder.Update(loose).Set("deleted", int64(5)).Build()
	require.NoError(t, err)
	_, err = ex.Exec(ctx, upd)
	require.NoError(t, err)

	sel, _ := builder.Select(books, "deleted").Build()
	_, err = ex.Query(ctx, sel)
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrOutOfRange)
}

func TestExecutor_Apply(t *testing.T) {
	ctx := context.Background()
	ex := setup(t)

	set := materializer.New(map[string]materializer.Func{
		"bookAdded": func(ev materializer.Event) (domain.Node, error) {
			return builder.InsertInto(books).Values(ev.Args).Build()
		},
	})

	ms, err := set.MaterializeAll(
		materializer.Event{Name: "bookAdded", Args: map[string]any{"id": int64(1), "title": "A"}},
		materializer.Event{Name: "bookAdded", Args: map[string]any{"id": int64(2), "title": "B"}},
	)
	require.NoError(t, err)
	require.NoError(t, ex.Apply(ctx, ms...))

	// The duplicate key in the second batch rolls back the first insert too.
	ms, err = set.MaterializeAll(
		materializer.Event{Name: "bookAdded", Args: map[string]any{"id": int64(3), "title": "C"}},
		materializer.Event{Name: "bookAdded", Args: map[string]any{"id": int64(1), "title": "dup"}},
	)
	require.NoError(t, err)
	err = ex.Apply(ctx, ms...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `event "bookAdded"`)

	sel, _ := builder.Select(books, "id").OrderBy("id", domain.Asc).Build()
	recs, err := ex.Query(ctx, sel)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(2), recs[1]["id"])
}

func TestExecutor_ApplyDialectMismatch(t *testing.T) {
	ex := setup(t)
	set := materializer.New(map[string]materializer.Func{
		"gone": func(materializer.Event) (domain.Node, error) { return builder.DeleteFrom(books).Build() },
	}, materializer.WithDialect(domain.PostgreSQL))

	m, err := set.Materialize(materializer.Event{Name: "gone"})
	require.NoError(t, err)
	assert.ErrorIs(t, ex.Apply(context.Background(), m), domain.ErrInconsistent)
}

func TestExecutor_ReservedWordNames(t *testing.T) {
	ctx := context.Background()

	db, err := database.New(database.Config{Dialect: domain.SQLite, URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { _ = db.Disconnect(ctx) })

	orders := schema.MustDefineTable("orders",
		schema.Integer("id", schema.PrimaryKey()),
		schema.Text("order"),
		schema.Integer("group", schema.Nullable()),
	)
	s, err := schema.NewSchema(orders)
	require.NoError(t, err)

	ex := executor.New(db)
	require.NoError(t, ex.CreateTables(ctx, s))

	ins, err := builder.InsertInto(orders).Values(map[string]any{"id": 1, "order": "first", "group": 7}).Build()
	require.NoError(t, err)
	_, err = ex.Exec(ctx, ins)
	require.NoError(t, err)

	sel, err := builder.Select(orders, "order", "group").
		Where(domain.Eq(domain.Column("order"), domain.Value("first"))).
		OrderBy("group", domain.Desc).
		Build()
	require.NoError(t, err)

	recs, err := ex.Query(ctx, sel)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "first", recs[0]["order"])
	assert.Equal(t, int64(7), recs[0]["group"])
}

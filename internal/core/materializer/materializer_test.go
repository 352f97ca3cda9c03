package materializer_test

import (
	"errors"
	"testing"

	"github.com/satishbabariya/tableshim/internal/core/materializer"
	"github.com/satishbabariya/tableshim/internal/core/query/builder"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var todos = schema.MustDefineTable("todos",
	schema.Text("id", schema.PrimaryKey()),
	schema.Text("text"),
	schema.Boolean("completed", schema.Default(false)),
)

func todoEvents() map[string]materializer.Func {
	return map[string]materializer.Func{
		"todoCreated": func(ev materializer.Event) (domain.Node, error) {
			return builder.InsertInto(todos).Values(map[string]any{
				"id":   ev.Args["id"],
				"text": ev.Args["text"],
			}).Build()
		},
		"todoCompleted": func(ev materializer.Event) (domain.Node, error) {
			return builder.Update(todos).
				Set("completed", true).
				Where(domain.Eq(domain.Column("id"), domain.Value(ev.Args["id"]))).
				Build()
		},
		"todoDeleted": func(ev materializer.Event) (domain.Node, error) {
			return builder.DeleteFrom(todos).
				Where(domain.Eq(domain.Column("id"), domain.Value(ev.Args["id"]))).
				Build()
		},
		"todosListed": func(materializer.Event) (domain.Node, error) {
			return builder.Select(todos).Build()
		},
	}
}

func TestMaterialize(t *testing.T) {
	set := materializer.New(todoEvents())

	m, err := set.Materialize(materializer.Event{Name: "todoCreated", Args: map[string]any{"id": "t1", "text": "milk"}})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "todos" ("id", "text") VALUES (?, ?)`, m.Query.SQL)
	assert.Equal(t, []any{"t1", "milk"}, m.Query.Binds)
	assert.Equal(t, []string{"todos"}, m.WriteTables)
	assert.Equal(t, "todoCreated", m.Event.Name)

	m, err = set.Materialize(materializer.Event{Name: "todoCompleted", Args: map[string]any{"id": "t1"}})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "todos" SET "completed" = ? WHERE "id" = ?`, m.Query.SQL)
	assert.Equal(t, []any{int64(1), "t1"}, m.Query.Binds)
}

func TestMaterialize_Dialect(t *testing.T) {
	set := materializer.New(todoEvents(), materializer.WithDialect(domain.PostgreSQL))
	assert.Equal(t, domain.PostgreSQL, set.Dialect())

	m, err := set.Materialize(materializer.Event{Name: "todoDeleted", Args: map[string]any{"id": "t1"}})
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "todos" WHERE "id" = $1`, m.Query.SQL)
}

func TestMaterialize_Errors(t *testing.T) {
	set := materializer.New(todoEvents())

	_, err := set.Materialize(materializer.Event{Name: "todoRenamed"})
	assert.ErrorIs(t, err, materializer.ErrUnknownEvent)

	_, err = set.Materialize(materializer.Event{Name: "todosListed"})
	assert.ErrorIs(t, err, materializer.ErrReadOnly)

	// A missing required argument fails in the builder.
	_, err = set.Materialize(materializer.Event{Name: "todoCreated", Args: map[string]any{"id": "t1"}})
	require.Error(t, err)
	var buildErr *domain.BuildError
	assert.True(t, errors.As(err, &buildErr))
	assert.Contains(t, err.Error(), `event "todoCreated"`)
}

func TestMaterialize_NilNodes(t *testing.T) {
	set := materializer.New(map[string]materializer.Func{
		"nothing": func(materializer.Event) (domain.Node, error) { return nil, nil },
		"nilInsert": func(materializer.Event) (domain.Node, error) {
			return (*domain.Insert)(nil), nil
		},
		"nilSelect": func(materializer.Event) (domain.Node, error) {
			var sel *domain.Select
			return sel, nil
		},
	})

	for _, name := range set.Events() {
		t.Run(name, func(t *testing.T) {
			_, err := set.Materialize(materializer.Event{Name: name})
			assert.ErrorIs(t, err, domain.ErrEmpty)
		})
	}

	m, err := materializer.New(map[string]materializer.Func{
		"ptr": func(materializer.Event) (domain.Node, error) {
			return &domain.Delete{Table: todos}, nil
		},
	}).Materialize(materializer.Event{Name: "ptr"})
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "todos"`, m.Query.SQL)
	assert.Equal(t, []string{"todos"}, m.WriteTables)
}

func TestMaterializeAll(t *testing.T) {
	set := materializer.New(todoEvents())
	assert.Equal(t, []string{"todoCompleted", "todoCreated", "todoDeleted", "todosListed"}, set.Events())

	ms, err := set.MaterializeAll(
		materializer.Event{Name: "todoCreated", Args: map[string]any{"id": "a", "text": "x"}},
		materializer.Event{Name: "todoDeleted", Args: map[string]any{"id": "a"}},
	)
	require.NoError(t, err)
	require.Len(t, ms, 2)

	_, err = set.MaterializeAll(materializer.Event{Name: "nope"})
	assert.ErrorIs(t, err, materializer.ErrUnknownEvent)
}

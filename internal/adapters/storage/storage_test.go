package storage

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	return map[string]Storage{
		"memory":     NewMemoryStorage(),
		"filesystem": NewFilesystemStorage(t.TempDir()),
	}
}

func TestStorage_ReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write(ctx, "schemas/books.tbl", []byte("table books {}")))

			got, err := s.Read(ctx, "schemas/books.tbl")
			require.NoError(t, err)
			assert.Equal(t, "table books {}", string(got))

			ok, err := s.Exists(ctx, "schemas/books.tbl")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, s.Delete(ctx, "schemas/books.tbl"))
			require.NoError(t, s.Delete(ctx, "schemas/books.tbl"))

			ok, err = s.Exists(ctx, "schemas/books.tbl")
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = s.Read(ctx, "schemas/books.tbl")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorage_List(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write(ctx, "dir/b.tbl", nil))
			require.NoError(t, s.Write(ctx, "dir/a.tbl", nil))
			require.NoError(t, s.MkdirAll(ctx, "dir/nested"))

			names, err := s.List(ctx, "dir")
			require.NoError(t, err)
			assert.Equal(t, []string{"a.tbl", "b.tbl", "nested"}, names)

			names, err = s.List(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestStorage_Streams(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.WriteStream(ctx, "stream.txt", bytes.NewBufferString("streamed")))

			r, err := s.ReadStream(ctx, "stream.txt")
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "streamed", string(got))

			_, err = s.ReadStream(ctx, "nope.txt")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStorage()
	_, err := s.Read(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Write(ctx, "x", nil), context.Canceled)
}

func TestFS_Resolve(t *testing.T) {
	s := NewFilesystemStorage("/base")
	assert.Equal(t, filepath.Join("/base", "a.tbl"), s.Resolve("a.tbl"))
	assert.Equal(t, "/abs/a.tbl", s.Resolve("/abs/a.tbl"))
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(nil)
	require.NoError(t, err)
	assert.IsType(t, &FS{}, s)

	s, err = NewStorage(&Config{Type: TypeMemory})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = NewStorage(&Config{Type: "s3"})
	assert.Error(t, err)
}

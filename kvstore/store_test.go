package kvstore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// exerciseStore runs the contract every Store implementation has to honor.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	v, err := s.Get("missing")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("a", "2")) // overwrite
	v, err = s.Get("a")
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, "2", *v)

	// binary-prefixed keys and empty values survive
	key := string([]byte{0x10, 0xff, 0x00}) + "tail"
	require.NoError(t, s.Set(key, ""))
	v, err = s.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, "", *v)

	require.NoError(t, s.Delete("a"))
	v, err = s.Get("a")
	require.NoError(t, err)
	require.Nil(t, v)
	require.NoError(t, s.Delete("a")) // idempotent

	require.NoError(t, s.Apply(map[string]string{"b": "x", "c": "y"}, []string{key}))
	v, err = s.Get("b")
	require.NoError(t, err)
	require.NotNil(t, v)
	v, err = s.Get(key)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMemStore(t *testing.T) {
	m := NewMem()
	exerciseStore(t, m)
	require.Equal(t, 2, m.Len())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get("k")
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, "v", *v)
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	require.Error(t, err)
}

func TestBatchFlush(t *testing.T) {
	s := NewMem()
	b := NewBatch()

	require.NoError(t, b.Flush(s)) // empty batch is a no-op
	require.Equal(t, 0, s.Len())

	b.Put("a", "1")
	b.Put("b", "2")
	b.Del("b") // a del cancels the staged put
	require.Equal(t, 2, b.Len())

	require.NoError(t, b.Flush(s))
	require.Equal(t, 1, s.Len())
	v, err := s.Get("a")
	require.NoError(t, err)
	require.NotNil(t, v)

	// the batch resets after a flush
	require.Equal(t, 0, b.Len())
	b.Put("c", "3")
	require.NoError(t, b.Flush(s))
	require.Equal(t, 2, s.Len())
}

func TestMemConcurrentAccess(t *testing.T) {
	m := NewMem()
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				k := fmt.Sprintf("g%d-%d", g, i)
				_ = m.Set(k, "v")
				_, _ = m.Get(k)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
	require.Equal(t, 800, m.Len())
}

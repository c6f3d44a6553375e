package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequire_ReadsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.ex")
	require.NoError(t, os.WriteFile(path, []byte("IO.puts 1"), 0o600))

	l := &Loader{}

	require.NoError(t, l.Require(context.Background(), path))
	require.Error(t, l.Require(context.Background(), filepath.Join(dir, "missing.ex")))
}

func TestBatchRequire_LoadsEveryFileOnce(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var got []string
	l := &Loader{
		Workers: 4,
		Load: func(ctx context.Context, path string) error {
			mu.Lock()
			got = append(got, path)
			mu.Unlock()
			return nil
		},
	}

	paths := []string{"a.ex", "b.ex", "c.ex", "d.ex", "e.ex"}
	require.NoError(t, l.BatchRequire(context.Background(), paths))

	sort.Strings(got)
	require.Equal(t, paths, got)
}

func TestBatchRequire_ReturnsFirstFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	l := &Loader{
		Workers: 2,
		Load: func(ctx context.Context, path string) error {
			if path == "bad.ex" {
				return boom
			}
			return nil
		},
	}

	err := l.BatchRequire(context.Background(), []string{"a.ex", "bad.ex", "c.ex"})
	require.ErrorIs(t, err, boom)
}

func TestBatchRequire_EmptyBatchCompletes(t *testing.T) {
	t.Parallel()

	l := &Loader{}
	require.NoError(t, l.BatchRequire(context.Background(), nil))
}

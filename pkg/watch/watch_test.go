package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.fired <- struct{}{}
	return nil
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func start(t *testing.T, w *Watcher) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return func() {
		cancelCtx()
		require.NoError(t, <-errCh)
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w, err := New(Config{Roots: []string{dir}, Debounce: 100 * time.Millisecond, OnChange: rec.onChange})
	require.NoError(t, err)
	stop := start(t, w)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		write(t, filepath.Join(dir, name), "data")
		time.Sleep(10 * time.Millisecond)
	}

	rec.wait(t)
	time.Sleep(250 * time.Millisecond)
	stop()

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		assert.Contains(t, calls[0], filepath.Join(dir, name))
	}
	assert.IsNonDecreasing(t, calls[0])
}

func TestWatcher_IgnoresEditorFiles(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w, err := New(Config{Roots: []string{dir}, Debounce: 50 * time.Millisecond, OnChange: rec.onChange})
	require.NoError(t, err)
	stop := start(t, w)

	write(t, filepath.Join(dir, ".main.txt.swp"), "x")
	write(t, filepath.Join(dir, "main.txt~"), "x")
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	write(t, filepath.Join(dir, "main.txt"), "x")
	rec.wait(t)
	stop()

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{filepath.Join(dir, "main.txt")}, calls[0])
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w, err := New(Config{Roots: []string{dir}, Debounce: 50 * time.Millisecond, OnChange: rec.onChange})
	require.NoError(t, err)
	stop := start(t, w)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	rec.wait(t)

	// Give the event loop time to register the new directory.
	time.Sleep(100 * time.Millisecond)
	write(t, filepath.Join(sub, "inner.txt"), "x")
	rec.wait(t)
	stop()

	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1], filepath.Join(sub, "inner.txt"))
}

func TestNew_RegistersSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0755))

	w, err := New(Config{Roots: []string{dir}})
	require.NoError(t, err)
	defer func() { _ = w.fsw.Close() }()

	watched := w.Watched()
	assert.Contains(t, watched, dir)
	assert.Contains(t, watched, filepath.Join(dir, "a"))
	assert.Contains(t, watched, filepath.Join(dir, "a", "b"))
	assert.NotContains(t, watched, filepath.Join(dir, ".git"))
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestNew_Errors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	write(t, file, "x")

	tests := []struct {
		name  string
		roots []string
	}{
		{name: "no roots"},
		{name: "missing root", roots: []string{filepath.Join(t.TempDir(), "missing")}},
		{name: "root is a file", roots: []string{file}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Roots: tt.roots})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrWatch))
		})
	}
}

func TestRun_OnlyOnce(t *testing.T) {
	w, err := New(Config{Roots: []string{t.TempDir()}})
	require.NoError(t, err)
	stop := start(t, w)
	// let the first Run claim the watcher
	time.Sleep(20 * time.Millisecond)

	err = w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrWatch))
	stop()
}

func TestIsIgnored(t *testing.T) {
	assert.True(t, isIgnored("/x/.file.swp"))
	assert.True(t, isIgnored("/x/file~"))
	assert.True(t, isIgnored("/x/.DS_Store"))
	assert.False(t, isIgnored("/x/file.txt"))
}

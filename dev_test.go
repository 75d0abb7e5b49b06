package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"model", "model/sub", ".git", "_examples", "vendor/x", "testdata"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}

	dirs, err := watchDirs([]string{root + "/...", filepath.Join(root, "model")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "model"),
		filepath.Join(root, "model", "sub"),
	}, dirs)

	_, err = watchDirs([]string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestIsWatchedSource(t *testing.T) {
	assert.True(t, isWatchedSource("/a/model.go"))
	assert.False(t, isWatchedSource("/a/model_test.go"))
	assert.False(t, isWatchedSource("/a/product_service_gen.go"))
	assert.False(t, isWatchedSource("/a/index.html"))
}

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) generate(_ context.Context, patterns []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, patterns)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func newTestWatcher(t *testing.T, patterns []string) (*devWatcher, *recorder) {
	t.Helper()
	w, err := newDevWatcher(devOptions{Patterns: patterns, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	rec := &recorder{}
	w.generate = rec.generate
	return w, rec
}

func TestDevWatcherDebounce(t *testing.T) {
	w, rec := newTestWatcher(t, []string{"./..."})
	ctx := context.Background()

	for range 5 {
		w.schedule(ctx, []string{"/src/app/model"})
	}
	w.schedule(ctx, []string{"/src/app/other"})

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, [][]string{{"/src/app/model"}, {"/src/app/other"}}, rec.snapshot())
}

func TestDevWatcherConfigChange(t *testing.T) {
	root := t.TempDir()
	patterns := []string{root + "/..."}
	w, rec := newTestWatcher(t, patterns)

	path := filepath.Join(root, "crudgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("views: true\n"), 0644))
	w.handle(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Write})

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, patterns, rec.snapshot()[0])
}

func TestDevWatcherSourceChange(t *testing.T) {
	root := t.TempDir()
	w, rec := newTestWatcher(t, []string{root + "/..."})
	ctx := context.Background()

	plain := filepath.Join(root, "plain.go")
	require.NoError(t, os.WriteFile(plain, []byte("package app\n\ntype Plain struct{}\n"), 0644))
	annotated := filepath.Join(root, "product.go")
	require.NoError(t, os.WriteFile(annotated, []byte("package app\n\n// @Crud\ntype Product struct {\n\tId int64\n}\n"), 0644))

	w.handle(ctx, fsnotify.Event{Name: plain, Op: fsnotify.Write})
	w.handle(ctx, fsnotify.Event{Name: annotated, Op: fsnotify.Remove})
	w.handle(ctx, fsnotify.Event{Name: annotated, Op: fsnotify.Write})

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{root}, rec.snapshot()[0])
}

func TestDevWatcherCancelled(t *testing.T) {
	w, rec := newTestWatcher(t, []string{"./..."})
	ctx, cancel := context.WithCancel(context.Background())
	w.schedule(ctx, []string{"/src/app/model"})
	cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentWatcher(t *testing.T) {
	t.Run("reports writes after debounce", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "doc.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o644))

		changed := make(chan string, 1)
		watcher, err := NewDocumentWatcher(path, func(p string) {
			select {
			case changed <- p:
			default:
			}
		}, nil)
		require.NoError(t, err)
		defer watcher.Stop()

		require.NoError(t, os.WriteFile(path, []byte(`{"a":2}`), 0o644))

		select {
		case p := <-changed:
			assert.Equal(t, path, p)
		case <-time.After(3 * time.Second):
			t.Fatal("change notification never arrived")
		}
	})

	t.Run("ignores sibling files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "doc.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

		changed := make(chan string, 1)
		watcher, err := NewDocumentWatcher(path, func(p string) {
			select {
			case changed <- p:
			default:
			}
		}, nil)
		require.NoError(t, err)
		defer watcher.Stop()

		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))

		select {
		case <-changed:
			t.Fatal("unrelated file triggered a notification")
		case <-time.After(watchDebounce * 2):
		}
	})

	t.Run("stop terminates the watch goroutine", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "doc.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

		watcher, err := NewDocumentWatcher(path, func(string) {}, nil)
		require.NoError(t, err)
		assert.Equal(t, path, watcher.Path())

		done := make(chan struct{})
		go func() {
			watcher.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop")
		}
	})
}

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) chan event {
	t.Helper()
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	w, err := New(root, log)
	require.NoError(t, err)

	events := make(chan event, 64)
	w.onEvent = func(ev event) { events <- ev }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return events
}

func waitFor(t *testing.T, events chan event, path string, op fsnotify.Op) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.path == path && ev.op.Has(op) {
				return
			}
		case <-deadline:
			t.Fatalf("no %s event for %s", op, path)
		}
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("hi"), 0o644))
	waitFor(t, events, "index.html", fsnotify.Create)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	require.NoError(t, os.Mkdir(filepath.Join(root, "css"), 0o755))
	waitFor(t, events, "css", fsnotify.Create)

	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "site.css"), []byte("a{}"), 0o644))
	waitFor(t, events, "css/site.css", fsnotify.Create)
}

func TestNewMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), logrus.New())
	assert.Error(t, err)
}

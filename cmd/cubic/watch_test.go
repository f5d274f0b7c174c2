package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a bytes.Buffer safe for the watch goroutine and the test
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	setupCommandTest(t)
	batchNoSave = true

	originalInterval := watchMinInterval
	watchMinInterval = 10 * time.Millisecond
	t.Cleanup(func() { watchMinInterval = originalInterval })

	path := filepath.Join(t.TempDir(), "cubics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("equations:\n  - name: first\n    a: 2\n    b: 0\n    c: 0\n    d: 16\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out lockedBuffer
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, &out, path) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching ")
	}, 10*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "== first: ")

	require.NoError(t, os.WriteFile(path, []byte("equations:\n  - name: second\n    a: 1\n    b: 6\n    c: 11\n    d: -6\n"), 0644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "== second: ")
	}, 10*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "changed, solving again")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runWatch did not stop after cancel")
	}
}

func TestRunWatchMissingDirectory(t *testing.T) {
	setupCommandTest(t)

	err := runWatch(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "missing", "cubics.yaml"))
	assert.Error(t, err)
}

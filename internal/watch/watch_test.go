package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/fermicfg/internal/resolve"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a result")
		return Result{}
	}
}

// receiveUntil skips results until ok accepts one. A single save can produce
// several events, and an intermediate truncated file is a valid document.
func receiveUntil(t *testing.T, ch <-chan Result, ok func(Result) bool) Result {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-ch:
			if ok(r) {
				return r
			}
		case <-deadline:
			t.Fatal("timed out waiting for a matching result")
			return Result{}
		}
	}
}

func startWatcher(t *testing.T, path string) (<-chan Result, context.CancelFunc, <-chan error) {
	t.Helper()
	r := resolve.New(nil)
	w := New([]string{path}, 50*time.Millisecond, func() (*resolve.Resolution, error) {
		return r.ResolveFile(path, nil)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Result)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, out) }()
	return out, cancel, done
}

func TestWatcher_ReResolvesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("binning:\n  binsz: 0.1\n"), 0o644))

	out, cancel, done := startWatcher(t, path)

	first := receive(t, out)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Trigger)
	v, _ := first.Resolution.Root.Lookup("binning.binsz")
	assert.Equal(t, 0.1, v)

	require.NoError(t, os.WriteFile(path, []byte("binning:\n  binsz: 0.25\n"), 0o644))
	second := receiveUntil(t, out, func(r Result) bool {
		if r.Err != nil {
			return false
		}
		v, _ := r.Resolution.Root.Lookup("binning.binsz")
		return v == 0.25
	})
	assert.Equal(t, path, second.Trigger)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_ReportsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selection:\n  evtype: 3\n"), 0o644))

	out, cancel, done := startWatcher(t, path)
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, receive(t, out).Err)

	require.NoError(t, os.WriteFile(path, []byte("selection:\n  evtype: three\n"), 0o644))
	r := receiveUntil(t, out, func(r Result) bool { return r.Err != nil })
	assert.ErrorIs(t, r.Err, resolve.ErrValidation)
	assert.Nil(t, r.Resolution)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	out, cancel, done := startWatcher(t, path)
	defer func() {
		cancel()
		<-done
	}()
	receive(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))
	select {
	case r := <-out:
		t.Fatalf("unexpected result triggered by %q", r.Trigger)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CancelBeforeDelivery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := New([]string{path}, time.Millisecond, func() (*resolve.Resolution, error) {
		return resolve.New(nil).ResolveFile(path, nil)
	}, nil)
	// Nobody reads out, so Run must return through ctx.
	assert.NoError(t, w.Run(ctx, make(chan Result)))
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New([]string{"/nonexistent/dir/config.yaml"}, time.Millisecond, func() (*resolve.Resolution, error) {
		return nil, nil
	}, nil)
	assert.Error(t, w.Run(context.Background(), make(chan Result)))
}

package meshio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/meshcollide/pkg/collision"
)

// replaceFile writes data next to path and renames it into place so the
// watcher never observes a half-written file.
func replaceFile(t *testing.T, path string, data []byte) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, data, 0644))
	require.NoError(t, os.Rename(tmp, path))
}

func waitForMesh(t *testing.T, w *Watcher, triangles int) *collision.Mesh {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case m := <-w.Reloads():
			if m != nil && m.Len() == triangles {
				return m
			}
		case <-timeout:
			t.Fatalf("no reload with %d triangles", triangles)
			return nil
		}
	}
}

func TestWatcherReloadsOnReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.tri")
	require.NoError(t, os.WriteFile(path, EncodeTRI(floor[:9]), 0644))

	w, err := NewWatcher(path, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, 1, w.Mesh().Len())

	replaceFile(t, path, EncodeTRI(floor))

	m := waitForMesh(t, w, 2)
	assert.Same(t, m, w.Mesh())
}

func TestWatcherKeepsMeshOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.tri")
	require.NoError(t, os.WriteFile(path, EncodeTRI(floor), 0644))

	w, err := NewWatcher(path, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	before := w.Mesh()
	replaceFile(t, path, []byte("not a mesh"))

	// A good write afterwards proves the bad one was processed and skipped.
	replaceFile(t, path, EncodeTRI(append(append([]float32{}, floor...), floor[:9]...)))
	waitForMesh(t, w, 3)

	assert.Equal(t, 2, before.Len())
}

func TestWatcherUsesBuildFunc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.tri")
	require.NoError(t, os.WriteFile(path, EncodeTRI(floor), 0644))

	build := func(v []float32) *collision.Mesh {
		return collision.Build(v, collision.WithFrontFace(collision.FrontFaceCCW))
	}
	w, err := NewWatcher(path, build, nil)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, float32(1), w.Mesh().Triangle(0).Normal().Z)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.tri")
	require.NoError(t, os.WriteFile(path, EncodeTRI(floor), 0644))

	w, err := NewWatcher(path, nil, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.tri"), EncodeTRI(floor[:9]), 0644))

	select {
	case m := <-w.Reloads():
		t.Fatalf("unexpected reload with %d triangles", m.Len())
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 2, w.Mesh().Len())
}

func TestWatcherMissingFile(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing.tri"), nil, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.tri")
	require.NoError(t, os.WriteFile(path, EncodeTRI(floor), 0644))

	w, err := NewWatcher(path, nil, nil)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	for range w.Reloads() {
	}
	assert.Equal(t, 2, w.Mesh().Len(), "mesh stays readable after close")
}

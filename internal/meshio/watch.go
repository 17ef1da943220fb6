package meshio

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/meshcollide/pkg/collision"
)

// BuildFunc turns a freshly loaded vertex buffer into a collision mesh.
type BuildFunc func(vertices []float32) *collision.Mesh

// Watcher holds the collision mesh for a file and rebuilds it whenever the
// file is written or replaced. Readers always see a complete mesh: a new one
// is swapped in only after it has been fully built.
type Watcher struct {
	path  string
	build BuildFunc
	log   *zap.Logger

	fs      *fsnotify.Watcher
	mesh    atomic.Pointer[collision.Mesh]
	reloads chan *collision.Mesh
	done    chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewWatcher loads path, builds the initial mesh and starts watching for changes.
// The parent directory is watched so that editors which save by renaming a
// temporary file over the original are still picked up.
func NewWatcher(path string, build BuildFunc, log *zap.Logger) (*Watcher, error) {
	if build == nil {
		build = func(v []float32) *collision.Mesh { return collision.Build(v) }
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &Watcher{
		path:    filepath.Clean(path),
		build:   build,
		log:     log.With(zap.String("path", path)),
		reloads: make(chan *collision.Mesh, 1),
		done:    make(chan struct{}),
	}

	if err := w.load(); err != nil {
		return nil, err
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(w.path)); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.fs = fsWatch

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Mesh returns the most recently built mesh.
func (w *Watcher) Mesh() *collision.Mesh {
	return w.mesh.Load()
}

// Reloads delivers each successfully rebuilt mesh. Only the latest pending
// mesh is kept if the receiver falls behind. Closed by Close.
func (w *Watcher) Reloads() <-chan *collision.Mesh {
	return w.reloads
}

// Close stops watching. The last mesh stays available through Mesh.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.reloads)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if err := w.load(); err != nil {
				w.log.Warn("mesh reload failed, keeping previous mesh", zap.Error(err))
				continue
			}
			w.publish(w.mesh.Load())

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) load() error {
	vertices, err := Load(w.path)
	if err != nil {
		return err
	}
	if len(vertices)%9 != 0 {
		w.log.Debug("dropping trailing partial triangle", zap.Int("floats", len(vertices)%9))
	}

	mesh := w.build(vertices)
	if mesh == nil {
		return errors.New("mesh build returned nil")
	}
	w.mesh.Store(mesh)
	w.log.Info("collision mesh built",
		zap.Int("triangles", mesh.Len()),
		zap.Int("skipped", mesh.Skipped()))
	return nil
}

// publish replaces any undelivered mesh with m.
func (w *Watcher) publish(m *collision.Mesh) {
	select {
	case w.reloads <- m:
		return
	default:
	}
	select {
	case <-w.reloads:
	default:
	}
	select {
	case w.reloads <- m:
	default:
	}
}

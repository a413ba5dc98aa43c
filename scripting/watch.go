package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce drops repeated events for one file inside the window.
const reloadDebounce = 100 * time.Millisecond

// Watcher reports edited .lua files in a directory to its Engine. The
// files are reloaded on the next Execute.
type Watcher struct {
	fs      *fsnotify.Watcher
	engine  *Engine
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching dir for script changes.
func (e *Engine) Watch(dir string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}
	w := &Watcher{
		fs:      fs,
		engine:  e,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isScript(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < reloadDebounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.engine.reloads <- event.Name:
			default:
				w.engine.log.Warn("script reload queue full", zap.String("path", event.Name))
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.engine.log.Warn("script watcher error", zap.Error(err))
		case <-w.closeCh:
			return
		}
	}
}

func (e *Engine) applyReloads() {
	for {
		select {
		case path := <-e.reloads:
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err := e.DoFile(path); err != nil {
				e.log.Error("script reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			e.log.Info("script reloaded", zap.String("path", path))
		default:
			return
		}
	}
}

func isScript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".lua")
}

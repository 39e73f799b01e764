package feed

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads content when files under the content root change. Rapid
// event bursts (editor save dances, multi-file syncs) collapse into a single
// reload via the debounce window.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func()

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	closed bool
	done   chan struct{}
}

func NewWatcher(debounce time.Duration, onChange func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch registers the content root and every source directory under it.
func (w *Watcher) Watch(root string, sources []Source) error {
	if err := w.fsw.Add(root); err != nil {
		return err
	}
	for _, source := range sources {
		if source.Path == "" {
			continue
		}
		if err := w.fsw.Add(source.Path); err != nil {
			return err
		}
		articleDir := filepath.Join(source.Path, "articles")
		// Sources may keep every article inline in the manifest; a missing
		// articles dir is not an error.
		_ = w.fsw.Add(articleDir)
	}
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.trigger()
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.seq++
	seq := w.seq
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stale := seq != w.seq || w.closed
		if !stale {
			w.timer = nil
		}
		w.mu.Unlock()
		if stale {
			return
		}
		w.onChange()
	})
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	close(w.done)
	return w.fsw.Close()
}

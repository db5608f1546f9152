package web

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"

	"github.com/tosih/ecux-analyzer/pkg/reader"
)

// settle is how long a log must stay quiet before it is reloaded; loggers
// append in many small writes.
const settle = 500 * time.Millisecond

// Watch reloads logs that change in the served folder until ctx is done.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(s.logFolder); err != nil {
		return err
	}

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[path]; ok {
			t.Reset(settle)
			return
		}
		pending[path] = time.AfterFunc(settle, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			if _, err := os.Stat(path); err != nil {
				return
			}
			pterm.DefaultLogger.Debug("reloading log", pterm.DefaultLogger.Args("file", path))
			s.reload(path)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !reader.IsLog(ev.Name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				s.drop(ev.Name)
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				schedule(ev.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			pterm.DefaultLogger.Warn("watch error", pterm.DefaultLogger.Args("error", err))
		}
	}
}

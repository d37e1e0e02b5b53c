// Package watcher reports writes to a set of source files, batched per
// quiet period.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/clothespin/internal/log"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 100 * time.Millisecond

// ErrNoFiles is returned by Watch when there is nothing to watch.
var ErrNoFiles = errors.New("no files to watch")

// Watch starts watching paths and returns a channel of change batches. Each
// batch holds the sorted, cleaned absolute paths written since the previous
// batch, sent once no event arrived for debounce. The channel is closed
// after ctx is done.
//
// The directories holding the files are watched rather than the files, so
// editors that replace a file on save keep being followed.
func Watch(ctx context.Context, paths []string, debounce time.Duration) (<-chan []string, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "Watching directory", "dir", dir)
	}

	b := &batcher{fsw: fsw, files: files, debounce: debounce, out: make(chan []string, 1)}
	go b.run(ctx)
	return b.out, nil
}

type batcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	out      chan []string
}

func (b *batcher) run(ctx context.Context) {
	defer close(b.out)
	defer func() {
		if err := b.fsw.Close(); err != nil {
			log.ErrorErr(log.CatWatcher, "Closing fsnotify watcher", err)
		}
	}()

	timer := time.NewTimer(b.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-b.fsw.Events:
			if !ok {
				return
			}
			path, ok := b.watched(event)
			if !ok {
				continue
			}
			pending[path] = true
			timer.Reset(b.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			slices.Sort(batch)
			select {
			case b.out <- batch:
				clear(pending)
			case <-ctx.Done():
				return
			}

		case err, ok := <-b.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "File watcher error", err)
		}
	}
}

// watched returns the cleaned path of event when it changes the contents of
// a watched file.
func (b *batcher) watched(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	return abs, b.files[abs]
}

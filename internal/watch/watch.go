// Package watch reports changes to a directory tree.
package watch

import (
	"cmp"
	"context"
	"io"
	"io/fs"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/fsnotify/fsnotify"
	"go.abhg.dev/codefence/internal/errdefer"
	"go.abhg.dev/codefence/internal/pathx"
	"go.abhg.dev/codefence/internal/relative"
)

// DefaultDebounce is the default quiet period
// a Watcher waits for before reporting changes.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches a directory and all its descendants for changes.
//
// Hidden files and directories are not watched.
type Watcher struct {
	// Dir is the directory to watch.
	Dir string

	// Ignore lists paths that must not be watched.
	// Changes to these or their descendants are dropped.
	// This is typically the output directory.
	Ignore []string

	// Debounce is how long the Watcher waits after a change
	// for the tree to settle before reporting it.
	// Defaults to DefaultDebounce.
	Debounce time.Duration

	Log *log.Logger
}

// Run watches the directory until the context is cancelled.
// onChange is called with the /-separated paths that changed,
// relative to Dir, once the tree has been quiet for Debounce.
// Calls to onChange are never concurrent.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) (err error) {
	logger := w.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	debounce := cmp.Or(w.Debounce, DefaultDebounce)

	root, err := filepath.Abs(w.Dir)
	if err != nil {
		return errtrace.Wrap(err)
	}
	ignore := make([]string, 0, len(w.Ignore))
	for _, p := range w.Ignore {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errtrace.Wrap(err)
		}
		ignore = append(ignore, abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, fsw)

	t := tree{
		root:    root,
		ignore:  ignore,
		watcher: fsw,
		log:     logger,
	}
	if err := t.add(root); err != nil {
		return errtrace.Wrap(err)
	}

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]struct{})
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if t.skip(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := t.add(ev.Name); err != nil {
						logger.Printf("warning: watch %v: %v", ev.Name, err)
					}
				}
			}

			name := filepath.ToSlash(relative.Filepath(root, ev.Name))
			logger.Printf("%v: %v", ev.Op, name)
			pending[name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Printf("warning: watch: %v", err)

		case <-fire:
			fire = nil
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			onChange(changed)
		}
	}
}

type tree struct {
	root    string
	ignore  []string
	watcher *fsnotify.Watcher
	log     *log.Logger
}

// add watches dir and its descendant directories.
// fsnotify is not recursive.
func (t *tree) add(dir string) error {
	return errtrace.Wrap(filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish between the event and the walk.
			if path != dir && os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if t.skip(path) {
			return fs.SkipDir
		}
		t.log.Printf("watching %v", path)
		return t.watcher.Add(path)
	}))
}

// skip reports whether changes to path should be ignored.
func (t *tree) skip(path string) bool {
	for _, ig := range t.ignore {
		if pathx.DescendsFile(ig, path) {
			return true
		}
	}
	if path == t.root {
		return false
	}

	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

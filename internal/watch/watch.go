package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scriptbundle/scriptbundle/internal/bundler"
)

// DefaultDebounceWindow is the delay between the first invalidation of an
// idle period and the rebundle it triggers.
const DefaultDebounceWindow = 250 * time.Millisecond

// skipDirNames are never descended into while registering watches; they
// hold dependency or VCS trees, not project sources.
var skipDirNames = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Coordinator watches a project tree and keeps one AssetTable in sync with
// it: it tracks whether the table is dirty or clean, runs at most one
// bundling pass at a time, holds at most one pending debounce timer, and
// reports every successful pass to onUpdate.
type Coordinator struct {
	opts     bundler.Options
	compiler bundler.Compiler
	table    *bundler.AssetTable
	log      zerolog.Logger

	onUpdate func(*bundler.Result)
	onError  func(error)

	debouncer *Debouncer

	mu      sync.Mutex
	dirty   bool
	running bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New returns a Coordinator ready to Start, debouncing rebundles by
// DefaultDebounceWindow. table should be a fresh bundler.NewAssetTable();
// the Coordinator mutates it in place across rebuilds.
func New(opts bundler.Options, compiler bundler.Compiler, table *bundler.AssetTable, log zerolog.Logger, onUpdate func(*bundler.Result), onError func(error)) *Coordinator {
	return NewWithDebounce(opts, compiler, table, log, DefaultDebounceWindow, onUpdate, onError)
}

// NewWithDebounce is New with an explicit debounce window, letting callers
// honor a project's configured watch.debounce_window.
func NewWithDebounce(opts bundler.Options, compiler bundler.Compiler, table *bundler.AssetTable, log zerolog.Logger, debounceWindow time.Duration, onUpdate func(*bundler.Result), onError func(error)) *Coordinator {
	c := &Coordinator{
		opts:     opts,
		compiler: compiler,
		table:    table,
		log:      log,
		onUpdate: onUpdate,
		onError:  onError,
	}
	c.debouncer = NewDebouncer(debounceWindow, c.rebundle)
	return c
}

// Start registers filesystem watches under the project root, runs the
// initial bundling pass immediately, and begins processing change events.
// It returns once the initial watch registration succeeds; rebuilds happen
// asynchronously until ctx is canceled or Stop is called.
func (c *Coordinator) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	c.watcher = w
	c.done = make(chan struct{})

	root, err := filepath.Abs(c.opts.ProjectRoot)
	if err != nil {
		w.Close()
		return err
	}
	if err := c.addTree(root); err != nil {
		w.Close()
		return err
	}

	go c.loop(ctx)
	c.debouncer.TriggerNow()

	return nil
}

// Stop closes the filesystem watcher and cancels any pending debounce
// timer. It does not wait for an in-flight bundling run to finish.
func (c *Coordinator) Stop() error {
	c.debouncer.Stop()
	if c.watcher != nil {
		close(c.done)
		return c.watcher.Close()
	}
	return nil
}

func (c *Coordinator) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirNames[d.Name()] {
			return filepath.SkipDir
		}
		return c.watcher.Add(path)
	})
}

func (c *Coordinator) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.onEvent(ev)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.onError(err)
		}
	}
}

// onEvent invalidates the changed file's cached state and, if idle,
// schedules a debounced rebundle.
func (c *Coordinator) onEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	c.invalidate(ev.Name)

	c.mu.Lock()
	c.dirty = true
	idle := !c.running
	c.mu.Unlock()

	if idle {
		c.debouncer.TriggerIfIdle()
	}
}

func (c *Coordinator) invalidate(hostPath string) {
	if name, ok := c.table.AssetNameForOrigin(hostPath); ok {
		c.table.RemoveOutput(name)
	}
	c.table.EvictExternalSource(hostPath)
	c.table.ResetProcessed()
}

// rebundle is the Debouncer's fire callback. It runs the bundling pass,
// reports the outcome, and loops in place if further invalidations arrived
// while it was running, so a burst during an in-flight run triggers
// exactly one more pass rather than one per invalidation.
func (c *Coordinator) rebundle() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.dirty = false
	c.mu.Unlock()

	for {
		runLog := c.log.With().Str("run_id", uuid.NewString()).Logger()

		result, err := bundler.Bundle(context.Background(), c.opts, c.compiler, c.table)
		if err != nil {
			runLog.Error().Err(err).Msg("rebundle failed")
			c.onError(err)
		} else {
			if root, rootErr := filepath.Abs(c.opts.ProjectRoot); rootErr == nil {
				if addErr := c.addTree(root); addErr != nil {
					runLog.Warn().Err(addErr).Msg("failed to extend watch tree")
				}
			}
			runLog.Info().Int("assets", len(result.EmissionOrder)).Msg("rebundle complete")
			c.onUpdate(result)
		}

		c.mu.Lock()
		if !c.dirty {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.dirty = false
		c.mu.Unlock()
	}
}

// Package watcher re-runs the analysis when its inputs change on disk and
// emits alerts for notable differences between consecutive runs.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/blackwell-systems/autoscout/internal/logging"
	"github.com/blackwell-systems/autoscout/internal/pipeline"
)

// Analyzer runs one analysis over the inputs. *pipeline.Runner implements it.
type Analyzer interface {
	Run(ctx context.Context, in pipeline.Inputs) (*pipeline.Result, error)
}

// Watcher re-runs an Analyzer whenever its inputs change and emits alerts
// when notable changes are detected.
type Watcher struct {
	analyzer      Analyzer
	inputs        pipeline.Inputs
	debounce      time.Duration
	previous      *State
	alertFn       func(Alert)     // callback for emitting alerts
	resultFn      func(*pipeline.Result)
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	logger        *zap.Logger
	now           func() time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithResultFunc registers a callback invoked with every successful run.
func WithResultFunc(fn func(*pipeline.Result)) Option {
	return func(w *Watcher) { w.resultFn = fn }
}

// New creates a Watcher for the given inputs.
func New(a Analyzer, in pipeline.Inputs, debounce time.Duration, alertFn func(Alert), opts ...Option) *Watcher {
	w := &Watcher{
		analyzer:      a,
		inputs:        in,
		debounce:      debounce,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrNop(w.logger)
	if w.debounce <= 0 {
		w.debounce = 2 * time.Second
	}
	return w
}

// Run performs an initial analysis, then re-analyzes after every debounced
// burst of changes to the inputs. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := w.addWatches(fsw); err != nil {
		return err
	}

	w.emit(w.Check(ctx))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			// New snippet directories must be watched explicitly.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.watchTree(fsw, event.Name)
				}
			}
			w.logger.Debug("input changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			w.emit(w.Check(ctx))
		}
	}
}

// Check performs a single cycle: runs the analysis, compares against the
// previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	res, err := w.analyzer.Run(ctx, w.inputs)
	if err != nil {
		return w.dedup([]Alert{{
			Level:   LevelWarning,
			Title:   "Analysis failed",
			Message: err.Error(),
			Time:    w.now(),
		}})
	}
	if w.resultFn != nil {
		w.resultFn(res)
	}

	curr := StateFrom(res, w.now())
	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}
	w.previous = curr
	return w.dedup(raw)
}

// dedup drops alerts identical to one emitted in the previous cycle.
func (w *Watcher) dedup(raw []Alert) []Alert {
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.key()
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

func (w *Watcher) emit(alerts []Alert) {
	for _, a := range alerts {
		if w.alertFn != nil {
			w.alertFn(a)
		}
	}
}

// addWatches watches the directory holding the items file, since editors
// often replace files instead of writing in place, and the snippet tree.
func (w *Watcher) addWatches(fsw *fsnotify.Watcher) error {
	if err := fsw.Add(filepath.Dir(w.inputs.Items)); err != nil {
		return fmt.Errorf("watching %s: %w", w.inputs.Items, err)
	}
	info, err := os.Stat(w.inputs.Snippets)
	if err != nil {
		return fmt.Errorf("watching %s: %w", w.inputs.Snippets, err)
	}
	if !info.IsDir() {
		if err := fsw.Add(filepath.Dir(w.inputs.Snippets)); err != nil {
			return fmt.Errorf("watching %s: %w", w.inputs.Snippets, err)
		}
		return nil
	}
	w.watchTree(fsw, w.inputs.Snippets)
	return nil
}

// watchTree adds root and every non-hidden directory below it.
func (w *Watcher) watchTree(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

// relevant reports whether an event concerns one of the inputs.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == filepath.Clean(w.inputs.Items) || name == filepath.Clean(w.inputs.Snippets) {
		return true
	}
	snippets := filepath.Clean(w.inputs.Snippets) + string(filepath.Separator)
	return strings.HasPrefix(name, snippets) && !strings.HasPrefix(filepath.Base(name), ".")
}

// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")

	// sourcePatterns always trigger a rebuild; graphics patterns are added per
	// configured extension.
	sourcePatterns = []string{"**/*.tex", "**/*.bib", "**/*.bbl", "**/*.cls", "**/*.sty"}

	// defaultIgnores covers VCS metadata, TeX build artefacts and editor noise.
	defaultIgnores = []string{
		"**/.git/**",
		"**/*.aux",
		"**/*.log",
		"**/*.out",
		"**/*.toc",
		"**/*.synctex.gz",
		"**/*.fdb_latexmk",
		"**/*.fls",
		"**/*.tar.gz",
		"**/.*.tmp-*",
		"**/*.swp",
		"**/*~",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the document directory. Empty means the working directory.
		BaseDir string
		// Extensions are the graphics extensions (without dot) that trigger a
		// rebuild in addition to TeX sources.
		Extensions []string
		// Outputs are paths relative to BaseDir written by the rebuild itself,
		// such as the archive and the file list. They never trigger a rebuild.
		Outputs []string
		// Ignore are extra doublestar patterns merged with the defaults.
		Ignore []string
		// Debounce is the quiet period before OnChange fires. Zero or negative
		// means 500ms.
		Debounce time.Duration
		// ClearScreen writes an ANSI clear sequence to Stdout before each run.
		ClearScreen bool
		// OnChange receives the sorted, deduplicated changed paths relative to
		// BaseDir. Errors are logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error
		// Stdout receives the clear-screen sequence. Nil means os.Stdout.
		Stdout io.Writer
		// Logger receives watcher diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a document tree. Run may be called once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		outputs  map[string]struct{}
		stdout   io.Writer
		logger   *log.Logger
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}

	// batch accumulates changed paths between debounce ticks.
	batch struct {
		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		running atomic.Bool
	}
)

// Patterns returns the doublestar patterns selecting files that trigger a
// rebuild for the given graphics extensions.
func Patterns(extensions []string) []string {
	out := slices.Clone(sourcePatterns)
	for _, ext := range extensions {
		out = append(out, "**/*."+ext)
	}
	return out
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// New validates cfg, opens an fsnotify watcher and registers BaseDir and
// every non-ignored directory below it.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	patterns := Patterns(cfg.Extensions)
	ignores := slices.Concat(defaultIgnores, cfg.Ignore)
	outputs := make(map[string]struct{}, len(cfg.Outputs))
	for _, out := range cfg.Outputs {
		outputs[filepath.ToSlash(filepath.Clean(out))] = struct{}{}
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: patterns,
		ignores:  ignores,
		outputs:  outputs,
		stdout:   stdout,
		logger:   logger,
		debounce: debounce,
		baseDir:  absBase,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("watch: close after init failure", "err", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run processes events until ctx is cancelled, returning nil then. Fatal
// watcher errors (resource exhaustion) end the loop with an error.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	b := &batch{pending: make(map[string]struct{})}
	fire := func() { w.fire(ctx, b) }

	defer func() {
		b.mu.Lock()
		if b.timer != nil {
			b.timer.Stop()
		}
		b.mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("watch: close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			rel = filepath.ToSlash(rel)

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name, rel)
			}
			if w.isIgnored(rel) || !w.matches(rel) {
				continue
			}
			w.logger.Debug("Change detected", "file", rel, "op", evt.Op.String())

			b.mu.Lock()
			b.pending[rel] = struct{}{}
			if b.timer == nil {
				b.timer = time.AfterFunc(w.debounce, fire)
			} else {
				b.timer.Reset(w.debounce)
			}
			b.mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

// fire drains the batch into OnChange. A rebuild still running when the
// timer fires postpones the batch by another debounce period.
func (w *Watcher) fire(ctx context.Context, b *batch) {
	if ctx.Err() != nil {
		return
	}
	if !b.running.CompareAndSwap(false, true) {
		w.logger.Debug("Rebuild still running, postponing")
		b.mu.Lock()
		b.timer.Reset(w.debounce)
		b.mu.Unlock()
		return
	}
	defer b.running.Store(false)

	b.mu.Lock()
	changed := slices.Sorted(maps.Keys(b.pending))
	clear(b.pending)
	b.mu.Unlock()
	if len(changed) == 0 {
		return
	}

	if w.cfg.ClearScreen {
		fmt.Fprint(w.stdout, "\033[2J\033[H")
	}
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.logger.Error("Rebuild failed", "err", err)
	}
}

// addDirectories registers BaseDir and its non-ignored subdirectories.
// Unreadable directories are skipped with a warning.
func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "err", walkErr)
			return nil //nolint:nilerr // inaccessible paths are skipped
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // cannot happen below baseDir
		}
		if rel != "." && w.isIgnoredDir(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

func (w *Watcher) maybeAddDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.isIgnoredDir(rel) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch: add new directory", "path", path, "err", err)
	}
}

func (w *Watcher) isIgnoredDir(rel string) bool {
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

// isIgnored reports whether the slash-separated path rel is an output or
// matches an ignore pattern.
func (w *Watcher) isIgnored(rel string) bool {
	if _, ok := w.outputs[rel]; ok {
		return true
	}
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matches(rel string) bool {
	return matchAny(w.patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}

package janitor

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"voxscribe/internal/logging"
	"voxscribe/internal/services"
)

const namePrefix = "voxscribe-"

// Janitor creates and tracks temp files under a single directory.
type Janitor struct {
	dir    string
	logger *slog.Logger

	mu   sync.Mutex
	live map[string]struct{}
}

// New returns a janitor rooted at dir. An empty dir uses os.TempDir.
func New(dir string, logger *slog.Logger) *Janitor {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = os.TempDir()
	}
	return &Janitor{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "janitor"),
		live:   make(map[string]struct{}),
	}
}

// Dir returns the directory temp files are created in.
func (j *Janitor) Dir() string {
	return j.dir
}

// Temp is one janitor-owned temp file.
type Temp struct {
	path string
	j    *Janitor
	once sync.Once
}

// Path returns the absolute temp file path.
func (t *Temp) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Release removes the file. Repeated calls are no-ops.
func (t *Temp) Release() {
	if t == nil || t.j == nil {
		return
	}
	t.once.Do(func() {
		t.j.remove(t.path)
	})
}

// Create reserves a new empty temp file ending in suffix.
func (j *Janitor) Create(suffix string) (*Temp, error) {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPrecondition, "janitor", "create temp dir", j.dir, err)
	}
	for range 3 {
		path := filepath.Join(j.dir, namePrefix+uuid.NewString()+suffix)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, services.Wrap(services.ErrPrecondition, "janitor", "create temp file", path, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return nil, services.Wrap(services.ErrPrecondition, "janitor", "close temp file", path, err)
		}
		j.mu.Lock()
		j.live[path] = struct{}{}
		j.mu.Unlock()
		j.logger.Debug("temp file created", logging.String("path", path))
		return &Temp{path: path, j: j}, nil
	}
	return nil, services.Wrap(services.ErrPrecondition, "janitor", "create temp file", "name collision", nil)
}

// Scoped creates a temp file and runs fn against its path. The file is
// kept and returned only when fn succeeds; on error or panic it is released
// before Scoped returns.
func (j *Janitor) Scoped(suffix string, fn func(path string) error) (*Temp, error) {
	created, err := j.Create(suffix)
	if err != nil {
		return nil, err
	}
	keep := false
	defer func() {
		if !keep {
			created.Release()
		}
	}()
	if err := fn(created.Path()); err != nil {
		return nil, err
	}
	keep = true
	return created, nil
}

// WithTempFile runs fn against a fresh temp file and always releases it.
func WithTempFile[T any](j *Janitor, suffix string, fn func(path string) (T, error)) (T, error) {
	var zero T
	tmp, err := j.Create(suffix)
	if err != nil {
		return zero, err
	}
	defer tmp.Release()
	return fn(tmp.Path())
}

// Live returns the paths created and not yet released, sorted.
func (j *Janitor) Live() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	paths := make([]string, 0, len(j.live))
	for path := range j.live {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ReleaseAll removes every outstanding temp file. Used on interrupt.
func (j *Janitor) ReleaseAll() {
	for _, path := range j.Live() {
		j.remove(path)
	}
}

func (j *Janitor) remove(path string) {
	j.mu.Lock()
	_, owned := j.live[path]
	delete(j.live, path)
	j.mu.Unlock()
	if !owned {
		return
	}
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		j.logger.Debug("temp file removed", logging.String("path", path))
		return
	}
	wrapped := fmt.Errorf("%w: %s: %w", services.ErrCleanup, path, err)
	logging.WarnWithContext(j.logger, "temp file cleanup failed", "temp_cleanup_failed",
		logging.String("path", path),
		logging.Error(wrapped),
		logging.String(logging.FieldErrorHint, "remove the file manually"),
		logging.String(logging.FieldImpact, "stray temp file left on disk"),
	)
}

package lifts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2beens/gymdash/internal/telemetry/tracing"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const archiveDirName = "archive"

// CsvRepo keeps the whole log in memory and mirrors it to a CSV file.
type CsvRepo struct {
	mu       sync.RWMutex
	path     string
	entries  []Entry
	version  atomic.Uint64
	lastSync time.Time // mod time of the file as last written/read by us
}

// NewCsvRepo loads the log from path. A missing or unreadable file starts an empty log.
func NewCsvRepo(path string) (*CsvRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	r := &CsvRepo{
		path:    path,
		entries: []Entry{},
	}
	if err := r.load(); err != nil {
		log.Warnf("csv repo: starting with empty log, load [%s]: %s", path, err)
	}
	return r, nil
}

func (r *CsvRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

// loadLocked reads the data file and swaps it in.
// must be called with the write lock held, so no Add lands between the read and the swap
func (r *CsvRepo) loadLocked() error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close data file: %s", err)
		}
	}()

	entries, err := ParseCSV(f)
	if err != nil {
		return err
	}
	stat, err := f.Stat()
	if err != nil {
		return err
	}

	r.entries = entries
	r.lastSync = stat.ModTime()
	r.version.Add(1)

	log.Debugf("csv repo: loaded %d entries from [%s]", len(entries), r.path)
	return nil
}

func (r *CsvRepo) Version() uint64 {
	return r.version.Load()
}

func (r *CsvRepo) All(ctx context.Context) ([]Entry, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.csv.all")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	span.SetAttributes(attribute.Int("entries", len(r.entries)))
	return append([]Entry(nil), r.entries...), nil
}

func (r *CsvRepo) Replace(ctx context.Context, entries []Entry) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.csv.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sorted := append([]Entry(nil), entries...)
	SortByDate(sorted)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.archive(); err != nil {
		return fmt.Errorf("archive data file: %w", err)
	}
	if err := r.persist(sorted); err != nil {
		return err
	}
	r.entries = sorted
	r.version.Add(1)
	return nil
}

func (r *CsvRepo) Add(ctx context.Context, entry Entry) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.csv.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", entry.Exercise))

	r.mu.Lock()
	defer r.mu.Unlock()

	updated := append(append([]Entry(nil), r.entries...), entry)
	SortByDate(updated)
	if err := r.persist(updated); err != nil {
		return err
	}
	r.entries = updated
	r.version.Add(1)
	return nil
}

// archive copies the current data file aside before it gets replaced.
// must be called with the write lock held
func (r *CsvRepo) archive() error {
	src, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	archiveDir := filepath.Join(filepath.Dir(r.path), archiveDirName)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return err
	}
	archivePath := filepath.Join(
		archiveDir,
		fmt.Sprintf("%s-%s.csv", time.Now().UTC().Format("20060102T150405"), uuid.NewString()),
	)
	dst, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	log.Debugf("csv repo: data file archived to [%s]", archivePath)
	return dst.Close()
}

// persist writes the entries to a temp file and renames it over the data file.
// must be called with the write lock held
func (r *CsvRepo) persist(entries []Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".gymdash-*.csv")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmp.Name())
	}()

	if err := WriteCSV(tmp, entries); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("rename data file: %w", err)
	}

	if stat, err := os.Stat(r.path); err == nil {
		r.lastSync = stat.ModTime()
	}
	return nil
}

// Watch reloads the log whenever the data file is changed by someone else,
// until ctx is done. The returned channel is closed once the watcher stops.
func (r *CsvRepo) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new fsnotify watcher: %w", err)
	}
	// watch the dir, the data file itself gets replaced by rename
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch data dir: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Errorf("close data file watcher: %s", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(r.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				r.reloadIfChanged()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("data file watcher: %s", err)
			}
		}
	}()

	log.Debugf("csv repo: watching [%s] for changes", r.path)
	return done, nil
}

func (r *CsvRepo) reloadIfChanged() {
	r.mu.Lock()
	defer r.mu.Unlock()

	stat, err := os.Stat(r.path)
	if err != nil {
		return
	}
	if stat.ModTime().Equal(r.lastSync) {
		// own write
		return
	}

	log.Infof("csv repo: data file changed on disk, reloading")
	if err := r.loadLocked(); err != nil {
		log.Errorf("csv repo: reload data file: %s", err)
	}
}

// FileCache serves content files (snippets, preview fragments, YAML pages)
// read from a --content-dir through memory-mapped regions.
//
// Files are mapped on first access and stay mapped until they are
// invalidated by the content watcher or the cache is closed. When mmap is
// not available the file is read into memory instead.
package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides memory-mapped access to content files.
//
// Thread-safe: reads run in parallel under an RWMutex, loads and
// invalidation take the write lock.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// Read returns a copy of the whole file. The copy stays valid after
	// the file is invalidated or the cache is closed.
	Read(filePath string) ([]byte, error)

	// Invalidate unmaps a single path so the next Get reloads it from
	// disk. Unknown paths are ignored.
	Invalidate(filePath string)

	// Reset unmaps every cached file but keeps the cache usable.
	Reset()

	// Size returns number of currently cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases resources.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles caps the number of mapped files. 0 means unlimited.
	MaxFiles int

	// MaxMemoryMB caps the mapped address space in MB. 0 means unlimited.
	// This is virtual memory; only touched pages occupy RAM.
	MaxMemoryMB int

	// EnableMetrics turns on hit/miss accounting.
	EnableMetrics bool

	// Logger for warnings. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns limits sized for a content bundle of a
// few thousand files.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:      4096,
		MaxMemoryMB:   256,
		EnableMetrics: true,
	}
}

// UnboundedFileCacheConfig returns config with no limits. Intended for tests.
func UnboundedFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{EnableMetrics: true}
}

// MappedFile represents a memory-mapped file.
type MappedFile struct {
	Path string

	// Data is the mapped region, nil for empty files. It must not be
	// retained past Invalidate or Close; use FileCache.Read for that.
	Data mmap.MMap

	// File is nil for entries that fell back to os.ReadFile.
	File *os.File

	Size     int64
	MappedAt time.Time

	fallback bool
}

// FileCacheStats tracks cache performance metrics.
type FileCacheStats struct {
	FilesLoaded   int64
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	MmapFailures  int64
	Invalidations int64
	TotalMappedMB float64
}

// ErrCacheFull is returned by Get when a configured limit would be exceeded.
var ErrCacheFull = errors.New("file cache limit reached")

// NewFileCache creates a new FileCache with the given config.
// If config is nil, uses DefaultFileCacheConfig().
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCacheImpl{
		config: config,
		logger: logger,
		files:  make(map[string]*MappedFile),
	}
}

type fileCacheImpl struct {
	config *FileCacheConfig
	logger *slog.Logger

	files map[string]*MappedFile
	bytes int64
	mu    sync.RWMutex

	stats   FileCacheStats
	statsMu sync.Mutex
}

func (fc *fileCacheImpl) Get(filePath string) (*MappedFile, error) {
	fc.mu.RLock()
	mf, ok := fc.files[filePath]
	fc.mu.RUnlock()
	if ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if mf, ok := fc.files[filePath]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}
	fc.record(func(s *FileCacheStats) { s.CacheMisses++ })

	mf, err := fc.load(filePath)
	if err != nil {
		return nil, err
	}
	fc.files[filePath] = mf
	fc.bytes += mf.Size
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })
	return mf, nil
}

func (fc *fileCacheImpl) Read(filePath string) ([]byte, error) {
	fc.mu.RLock()
	mf, ok := fc.files[filePath]
	if ok {
		out := make([]byte, len(mf.Data))
		copy(out, mf.Data)
		fc.mu.RUnlock()
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return out, nil
	}
	fc.mu.RUnlock()

	if _, err := fc.Get(filePath); err != nil {
		return nil, err
	}

	fc.mu.RLock()
	defer fc.mu.RUnlock()
	mf, ok = fc.files[filePath]
	if !ok {
		// Invalidated between Get and here; read straight from disk.
		return os.ReadFile(filePath)
	}
	out := make([]byte, len(mf.Data))
	copy(out, mf.Data)
	return out, nil
}

// load must be called while holding mu.Lock.
func (fc *fileCacheImpl) load(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if err := fc.checkLimits(stat.Size()); err != nil {
		file.Close()
		return nil, err
	}

	// mmap cannot map zero bytes.
	if stat.Size() == 0 {
		return &MappedFile{Path: filePath, File: file, MappedAt: time.Now()}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback", "file", filePath, "error", err)
		file.Close()
		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })
		return &MappedFile{
			Path:     filePath,
			Data:     mmap.MMap(raw),
			Size:     int64(len(raw)),
			MappedAt: time.Now(),
			fallback: true,
		}, nil
	}

	return &MappedFile{
		Path:     filePath,
		Data:     data,
		File:     file,
		Size:     stat.Size(),
		MappedAt: time.Now(),
	}, nil
}

// checkLimits must be called while holding mu.Lock.
func (fc *fileCacheImpl) checkLimits(newSize int64) error {
	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		return fmt.Errorf("%w: %d files (limit: %d)", ErrCacheFull, len(fc.files), fc.config.MaxFiles)
	}
	if fc.config.MaxMemoryMB > 0 {
		limit := int64(fc.config.MaxMemoryMB) * 1024 * 1024
		if fc.bytes+newSize > limit {
			return fmt.Errorf("%w: %d bytes + %d bytes exceeds %d MB",
				ErrCacheFull, fc.bytes, newSize, fc.config.MaxMemoryMB)
		}
	}
	return nil
}

func (fc *fileCacheImpl) Invalidate(filePath string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	mf, ok := fc.files[filePath]
	if !ok {
		return
	}
	if err := fc.release(mf); err != nil {
		fc.logger.Warn("failed to release file", "path", filePath, "error", err)
	}
	delete(fc.files, filePath)
	fc.bytes -= mf.Size
	fc.record(func(s *FileCacheStats) { s.Invalidations++ })
}

func (fc *fileCacheImpl) Reset() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.releaseAllLocked()
}

func (fc *fileCacheImpl) release(mf *MappedFile) error {
	var errs []error
	if mf.Data != nil && !mf.fallback {
		if err := mf.Data.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap %q: %w", mf.Path, err))
		}
	}
	if mf.File != nil {
		if err := mf.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", mf.Path, err))
		}
	}
	return errors.Join(errs...)
}

// releaseAllLocked must be called while holding mu.Lock.
func (fc *fileCacheImpl) releaseAllLocked() []error {
	var errs []error
	for path, mf := range fc.files {
		if err := fc.release(mf); err != nil {
			fc.logger.Warn("failed to release file", "path", path, "error", err)
			errs = append(errs, err)
		}
	}
	fc.files = make(map[string]*MappedFile)
	fc.bytes = 0
	return errs
}

func (fc *fileCacheImpl) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

func (fc *fileCacheImpl) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.files)
	mapped := float64(fc.bytes) / (1024 * 1024)
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = mapped
	return stats
}

func (fc *fileCacheImpl) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	errs := fc.releaseAllLocked()

	fc.statsMu.Lock()
	fc.logger.Debug("file cache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"cache_misses", fc.stats.CacheMisses,
		"mmap_failures", fc.stats.MmapFailures)
	fc.statsMu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %w", errors.Join(errs...))
	}
	return nil
}

func (fc *fileCacheImpl) record(update func(*FileCacheStats)) {
	if !fc.config.EnableMetrics {
		return
	}
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}

package supporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"bmac/internal/models"
	"bmac/internal/providers"
	"bmac/internal/structures"
	"bmac/internal/supporter/interfaces"
)

// ErrCacheCorrupt marks a cache file that exists but cannot be decoded.
// Callers distinguish it from a plain miss so the operator can clear the
// broken entry instead of refetching over it.
var ErrCacheCorrupt = errors.New("cache entry is corrupt")

// ErrInvalidCreator rejects slugs that could escape the cache directory.
var ErrInvalidCreator = errors.New("invalid creator slug")

var creatorPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidateCreator checks that a slug is safe to use as a path segment
// and as an API parameter.
func ValidateCreator(creator string) error {
	if !creatorPattern.MatchString(creator) {
		return fmt.Errorf("%w: %q", ErrInvalidCreator, creator)
	}
	return nil
}

// StoreInterface is the on-disk supporter dataset cache, one file per
// creator.
type StoreInterface interface {
	Read(creator string) ([]json.RawMessage, bool, error)
	Write(creator string, payloads []json.RawMessage) error
	Invalidate(creator string) (bool, error)
	InvalidateAll() (int, error)
	Describe(creator string) (*models.CacheInfo, bool, error)
	List() ([]string, error)
	Close()
}

const (
	plainExt      = ".json"
	compressedExt = ".json.zst"
)

type CacheStore struct {
	dir        string
	ttl        time.Duration
	ext        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewCacheStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (StoreInterface, error) {
	if err := os.MkdirAll(conf.Cache.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", conf.Cache.Dir, err)
	}
	ext := plainExt
	if conf.Cache.Compress {
		ext = compressedExt
	}
	return &CacheStore{
		dir:        conf.Cache.Dir,
		ttl:        conf.Cache.TTL,
		ext:        ext,
		compressor: compressor,
		logger:     logger,
	}, nil
}

// Read returns the cached payloads for a creator. The second result is
// false on a miss, which covers both an absent file and an expired entry.
// A file that exists but cannot be decoded is an error wrapping
// ErrCacheCorrupt, never a silent miss.
func (s *CacheStore) Read(creator string) ([]json.RawMessage, bool, error) {
	if err := ValidateCreator(creator); err != nil {
		return nil, false, err
	}

	path := s.entryPath(creator)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache file %s: %w", path, err)
	}

	raw, err := s.compressor.Decompress(data)
	if err != nil {
		return nil, false, fmt.Errorf("cache file %s: %w: %w", path, ErrCacheCorrupt, err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("cache file %s: %w: %w", path, ErrCacheCorrupt, err)
	}
	if entry.Timestamp <= 0 || entry.Data == nil {
		return nil, false, fmt.Errorf("cache file %s: %w: missing timestamp or data", path, ErrCacheCorrupt)
	}

	now := time.Now()
	if !entry.IsFresh(now, s.ttl) {
		s.logger.Debugf(providers.TypeCache, "Cache for %s expired (age %s)", creator, entry.Age(now).Round(time.Second))
		return nil, false, nil
	}

	s.logger.Debugf(providers.TypeCache, "Cache hit for %s (%d records)", creator, len(entry.Data))
	return entry.Data, true, nil
}

// Write replaces the cached dataset for a creator with a fresh entry
// stamped at the current time. The file is written atomically.
func (s *CacheStore) Write(creator string, payloads []json.RawMessage) error {
	if err := ValidateCreator(creator); err != nil {
		return err
	}
	// An empty dataset is a valid entry and must stay a JSON array.
	if payloads == nil {
		payloads = []json.RawMessage{}
	}

	entry := models.NewCacheEntry(payloads, time.Now())
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	path := s.entryPath(creator)
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}
	if err = os.Rename(tmpFile, path); err != nil {
		return err
	}

	s.logger.Debugf(providers.TypeCache, "Cached %d records for %s", len(payloads), creator)
	return nil
}

// Invalidate removes one creator's entry. Returns false when there was
// nothing to remove.
func (s *CacheStore) Invalidate(creator string) (bool, error) {
	if err := ValidateCreator(creator); err != nil {
		return false, err
	}
	if err := os.Remove(s.entryPath(creator)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	s.logger.Infof(providers.TypeCache, "Invalidated cache for %s", creator)
	return true, nil
}

// InvalidateAll removes every cache entry and reports how many were
// deleted.
func (s *CacheStore) InvalidateAll() (int, error) {
	files, err := s.entryFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		s.logger.Infof(providers.TypeCache, "Cleared %d cache entries", removed)
	}
	return removed, nil
}

// Describe reports file metadata for a creator's entry without decoding
// it. The second result is false when no entry exists.
func (s *CacheStore) Describe(creator string) (*models.CacheInfo, bool, error) {
	if err := ValidateCreator(creator); err != nil {
		return nil, false, err
	}
	path := s.entryPath(creator)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &models.CacheInfo{
		Creator:      creator,
		Path:         path,
		SizeBytes:    info.Size(),
		LastModified: info.ModTime(),
	}, true, nil
}

// List returns the creators with a cache entry, sorted.
func (s *CacheStore) List() ([]string, error) {
	files, err := s.entryFiles()
	if err != nil {
		return nil, err
	}
	creators := make([]string, 0, len(files))
	for _, file := range files {
		creators = append(creators, extractCreator(file))
	}
	slices.Sort(creators)
	return slices.Compact(creators), nil
}

func (s *CacheStore) Close() {
	s.compressor.Close()
}

func (s *CacheStore) entryPath(creator string) string {
	return filepath.Join(s.dir, creator+s.ext)
}

// entryFiles matches both plain and compressed layouts so clears keep
// working across a compress config flip.
func (s *CacheStore) entryFiles() ([]string, error) {
	var files []string
	for _, ext := range []string{plainExt, compressedExt} {
		matches, err := filepath.Glob(filepath.Join(s.dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// extractCreator recovers the slug from an entry path.
// "alice.json.zst" becomes "alice".
func extractCreator(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, compressedExt)
	return strings.TrimSuffix(base, plainExt)
}

package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores raw upstream responses as JSON files so repeated season runs
// avoid redundant downloads. An empty directory disables caching.
type Cache struct {
	dir string
}

// NewCache creates a response cache rooted at dir. The directory is created
// lazily on first write.
func NewCache(dir string) *Cache {
	return &Cache{dir: strings.TrimSpace(dir)}
}

// Load reads a cached payload into value. The second return reports a hit.
func (c *Cache) Load(key string, value any) (bool, error) {
	if c == nil || c.dir == "" {
		return false, nil
	}
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

// Store writes a payload under key. Writes go through a temp file and rename
// so a crash never leaves a truncated entry behind.
func (c *Cache) Store(key string, value any) error {
	if c == nil || c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	target := c.entryPath(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("finalize cache entry %s: %w", key, err)
	}
	return nil
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// ScheduleKey is the cache key for a season schedule.
func ScheduleKey(year int) string {
	return fmt.Sprintf("schedule_%d", year)
}

// SessionKey is the cache key for one session dataset.
func SessionKey(year, round int, sessionName string) string {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(sessionName), " ", "_"))
	return fmt.Sprintf("session_%d_%02d_%s", year, round, name)
}

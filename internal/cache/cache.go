package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/panbanda/docaudit/pkg/critique"
	"github.com/panbanda/docaudit/pkg/models"
)

// Cache stores critiques on disk keyed by a hash of the reviewed block and
// the settings that produced the verdict. Lookups within one run are served
// from memory.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool

	mu   sync.Mutex
	memo map[uint64]models.Critique
}

// Entry represents a cached critique.
type Entry struct {
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Critique  models.Critique `json:"critique"`
}

// New creates a new cache instance. A disabled cache never hits and never writes.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
		memo:    make(map[uint64]models.Critique),
	}, nil
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool { return c.enabled }

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key derives the cache key for a block reviewed under namespace.
func Key(namespace, block string) string {
	return HashBytes([]byte(namespace + "\x00" + block))
}

// Get retrieves a cached critique if it exists and is not expired.
func (c *Cache) Get(key string) (models.Critique, bool) {
	if !c.enabled {
		return models.Critique{}, false
	}

	c.mu.Lock()
	crit, ok := c.memo[xxhash.Sum64String(key)]
	c.mu.Unlock()
	if ok {
		return crit, true
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Critique{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		return models.Critique{}, false
	}

	if time.Since(entry.Timestamp) > c.ttl {
		os.Remove(path)
		return models.Critique{}, false
	}

	c.remember(key, entry.Critique)
	return entry.Critique, true
}

// Set stores a critique in the cache.
func (c *Cache) Set(key string, crit models.Critique) error {
	if !c.enabled {
		return nil
	}

	entryData, err := json.Marshal(Entry{
		Key:       key,
		Timestamp: time.Now(),
		Critique:  crit,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.keyPath(key), entryData, 0600); err != nil {
		return err
	}
	c.remember(key, crit)
	return nil
}

func (c *Cache) remember(key string, crit models.Critique) {
	c.mu.Lock()
	c.memo[xxhash.Sum64String(key)] = crit
	c.mu.Unlock()
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	clear(c.memo)
	c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

// keyPath converts a key to a filesystem path. Keys are already hex digests.
func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}
	return stats, nil
}

// Wrap returns a Critic that serves verdicts from c and stores successful
// verdicts from next. namespace should identify everything besides the block
// text that shapes a verdict, such as the model and style.
func Wrap(next critique.Critic, c *Cache, namespace string) critique.Critic {
	if c == nil || !c.Enabled() {
		return next
	}
	return critique.CriticFunc(func(ctx context.Context, block string) (models.Critique, error) {
		key := Key(namespace, block)
		if crit, ok := c.Get(key); ok {
			return crit, nil
		}
		crit, err := next.Critique(ctx, block)
		if err != nil {
			return crit, err
		}
		// A failed write only costs a future model call.
		_ = c.Set(key, crit)
		return crit, nil
	})
}

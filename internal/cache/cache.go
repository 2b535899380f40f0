package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is the on-disk record for a cached response.
type Entry struct {
	Timestamp int64  `json:"timestamp"`
	Response  string `json:"response"`
	Model     string `json:"model"`
}

// Cache is a content-addressed, file-backed store for generated responses.
// Every triple (content, model, style) maps to one <sha256-hex>.json file
// under the cache directory. All storage errors are absorbed: a failed read
// is a miss, a failed write is a no-op. Caching must never break the caller.
type Cache struct {
	dir        string
	ttlSeconds int
	now        func() time.Time
}

// Option configures optional Cache behavior.
type Option func(*Cache) error

// WithIgnoreFile registers the cache directory in the given ignore-list file
// (typically .gitignore) after construction. The file is created if absent
// and appended to if it does not already mention the directory. Failures are
// swallowed: this is a convenience, not a correctness requirement.
func WithIgnoreFile(path string) Option {
	return func(c *Cache) error {
		registerIgnore(path, c.dir)
		return nil
	}
}

// WithClock overrides the time source. Used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) error {
		c.now = now
		return nil
	}
}

// New creates a cache rooted at dir with the given time-to-live.
// The directory is created if it does not exist.
func New(dir string, ttlSeconds int, opts ...Option) (*Cache, error) {
	if dir == "" {
		dir = ".logchange_cache"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	c := &Cache{
		dir:        dir,
		ttlSeconds: ttlSeconds,
		now:        time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Key derives the content-addressed lookup key for a request triple.
// Identical inputs always produce the identical key.
func Key(content, model, style string) string {
	h := sha256.Sum256([]byte(content + ":" + model + ":" + style))
	return fmt.Sprintf("%x", h)
}

// Get returns the cached response for the triple, or ("", false) when the
// entry is absent, expired, or unreadable. Expired and corrupt entries are
// deleted on the way out.
func (c *Cache) Get(content, model, style string) (string, bool) {
	path := c.entryPath(Key(content, model, style))

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(path)
		return "", false
	}

	if c.expired(entry) {
		os.Remove(path)
		return "", false
	}

	return entry.Response, true
}

// Set stores a response for the triple. Write failures are swallowed.
func (c *Cache) Set(content, model, response, style string) {
	entry := Entry{
		Timestamp: c.now().Unix(),
		Response:  response,
		Model:     model,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.entryPath(Key(content, model, style)), data, 0o644)
}

// Clear deletes every entry regardless of age and returns the count removed.
func (c *Cache) Clear() int {
	count := 0
	for _, path := range c.entryFiles() {
		if os.Remove(path) == nil {
			count++
		}
	}
	return count
}

// ClearExpired deletes entries past the TTL, plus any that fail to parse,
// and returns the count removed. Fresh entries are left intact.
func (c *Cache) ClearExpired() int {
	count := 0
	for _, path := range c.entryFiles() {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.Remove(path) == nil {
				count++
			}
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			if os.Remove(path) == nil {
				count++
			}
			continue
		}

		if c.expired(entry) {
			if os.Remove(path) == nil {
				count++
			}
		}
	}
	return count
}

// Stats describes the current contents of the cache directory.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats reports entry counts and sizes. Unreadable entries are skipped.
func (c *Cache) GetStats() Stats {
	stats := Stats{Dir: c.dir}
	for _, path := range c.entryFiles() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			stats.Expired++
			continue
		}
		if c.expired(entry) {
			stats.Expired++
		}
	}
	return stats
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) expired(entry Entry) bool {
	return c.now().Unix()-entry.Timestamp > int64(c.ttlSeconds)
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) entryFiles() []string {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return nil
	}
	return matches
}

// registerIgnore appends the cache directory to an ignore-list file,
// creating the file when absent. Any failure leaves the file as-is.
func registerIgnore(ignorePath, cacheDir string) {
	line := cacheDir + "/"

	data, err := os.ReadFile(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			_ = os.WriteFile(ignorePath, []byte(line+"\n"), 0o644)
		}
		return
	}

	if strings.Contains(string(data), cacheDir) {
		return
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString("\n" + line + "\n")
}

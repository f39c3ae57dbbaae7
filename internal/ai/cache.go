package ai

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"huntdash/internal/util/logx"
)

// Cache stores explanations on disk, one JSON file per subject key.
type Cache struct {
	dir string
}

// NewCache uses dir, or a directory under the OS temp dir when dir is empty.
func NewCache(dir string) *Cache {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "huntdash-explain-cache")
	}
	return &Cache{dir: dir}
}

func (c *Cache) Dir() string { return c.dir }

func cacheKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	h := sha1.Sum([]byte(key))
	return hex.EncodeToString(h[:]), nil
}

func (c *Cache) path(key string) (string, error) {
	k, err := cacheKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, fmt.Sprintf("explain_%s.json", k)), nil
}

func (c *Cache) Load(key string) (Explanation, bool) {
	p, err := c.path(key)
	if err != nil {
		return Explanation{}, false
	}
	f, err := os.Open(p)
	if err != nil {
		return Explanation{}, false
	}
	defer f.Close()
	var e Explanation
	if err := json.NewDecoder(f).Decode(&e); err != nil {
		return Explanation{}, false
	}
	return e, true
}

// Save writes atomically via a temp file and rename.
func (c *Cache) Save(key string, e Explanation) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp := p + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	logx.Debugf("ai: cached explanation saved to %s", p)
	return nil
}

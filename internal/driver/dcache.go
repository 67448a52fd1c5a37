package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"lintel/internal/diag"
	"lintel/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest keys cache entries.
type Digest [32]byte

// CacheKey combines everything that determines the diagnostics of a file:
// its path and content, the configuration fingerprint, the rule set and the
// tool version.
func CacheKey(file *source.File, fingerprint, rules, toolVersion string) Digest {
	h := sha256.New()
	for _, part := range []string{file.Path, fingerprint, rules, toolVersion} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(file.Hash[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// DiskCache stores per-file diagnostics on disk keyed by Digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached result of one file.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	ContentHash [32]byte
	Diagnostics []CachedDiagnostic
	Dropped     int
}

// CachedDiagnostic is the serialized form of a diag.Diagnostic. Report
// arguments are not cached.
type CachedDiagnostic struct {
	RuleID    string
	Severity  uint8
	Start     uint32
	End       uint32
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Message   string
	Internal  bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A payload of
// another schema version is a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func toPayload(file *source.File, bag *diag.Bag) *DiskPayload {
	items := bag.Items()
	payload := &DiskPayload{
		Path:        file.Path,
		ContentHash: file.Hash,
		Diagnostics: make([]CachedDiagnostic, len(items)),
		Dropped:     bag.Dropped(),
	}
	for i := range items {
		d := &items[i]
		payload.Diagnostics[i] = CachedDiagnostic{
			RuleID:    d.RuleID(),
			Severity:  uint8(d.Severity),
			Start:     d.Span.Start,
			End:       d.Span.End,
			StartLine: d.Start.Line,
			StartCol:  d.Start.Col,
			EndLine:   d.End.Line,
			EndCol:    d.End.Col,
			Message:   d.Message,
			Internal:  d.Internal,
		}
	}
	return payload
}

// fromPayload restores diagnostics into bag. It fails when a cached rule is
// no longer known, which makes the entry a miss.
func fromPayload(payload *DiskPayload, file *source.File, descs map[string]*diag.Descriptor, bag *diag.Bag) bool {
	if payload.ContentHash != file.Hash {
		return false
	}
	restored := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		desc, ok := descs[cd.RuleID]
		if !ok {
			return false
		}
		restored = append(restored, diag.Diagnostic{
			Descriptor: desc,
			Severity:   diag.Severity(cd.Severity),
			Path:       file.Path,
			Span:       source.Span{File: file.ID, Start: cd.Start, End: cd.End},
			Start:      source.LineCol{Line: cd.StartLine, Col: cd.StartCol},
			End:        source.LineCol{Line: cd.EndLine, Col: cd.EndCol},
			Message:    cd.Message,
			Internal:   cd.Internal,
		})
	}
	for _, d := range restored {
		bag.Add(d)
	}
	return true
}

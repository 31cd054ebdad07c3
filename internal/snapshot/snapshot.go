package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/fermicfg/internal/resolve"
	"github.com/dshills/fermicfg/internal/tree"
)

// ErrNotFound is returned when no snapshot matches an ID.
var ErrNotFound = errors.New("snapshot not found")

// Entry is a stored resolution.
type Entry struct {
	ID         string       `json:"id"`
	Source     string       `json:"source,omitempty"`
	Digest     string       `json:"digest"`
	Components []string     `json:"components"`
	CreatedAt  time.Time    `json:"createdAt"`
	Root       tree.Mapping `json:"root"`
}

// Store is a directory of snapshot files.
type Store struct {
	dir        string
	ttlSeconds int
	enabled    bool
	now        func() time.Time
}

// New creates a Store. If dir is empty, uses the default snapshot directory.
// A ttlSeconds of zero keeps snapshots forever.
func New(enabled bool, dir string, ttlSeconds int) (*Store, error) {
	if !enabled {
		return &Store{enabled: false, now: time.Now}, nil
	}
	if dir == "" {
		d, err := defaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &Store{dir: dir, ttlSeconds: ttlSeconds, enabled: true, now: time.Now}, nil
}

// Put stores res and returns the new entry. On a disabled store the entry
// is returned but nothing is written.
func (s *Store) Put(res *resolve.Resolution) (Entry, error) {
	digest, err := Digest(res.Root)
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:         uuid.NewString(),
		Source:     res.Source,
		Digest:     digest,
		Components: res.Names(),
		CreatedAt:  s.now().UTC(),
		Root:       res.Root,
	}
	if !s.enabled {
		return entry, nil
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(s.entryPath(entry.ID), data, 0o644); err != nil {
		return Entry{}, fmt.Errorf("writing snapshot: %w", err)
	}
	return entry, nil
}

// Get returns the snapshot whose ID starts with id. The prefix must be
// unambiguous.
func (s *Store) Get(id string) (Entry, error) {
	if !s.enabled || id == "" {
		return Entry{}, ErrNotFound
	}
	entries, err := s.List()
	if err != nil {
		return Entry{}, err
	}
	var match []Entry
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
		if strings.HasPrefix(e.ID, id) {
			match = append(match, e)
		}
	}
	switch len(match) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return match[0], nil
	default:
		return Entry{}, fmt.Errorf("snapshot id %q is ambiguous (%d matches)", id, len(match))
	}
}

// List returns the unexpired snapshots, oldest first. Unreadable files are
// skipped.
func (s *Store) List() ([]Entry, error) {
	if !s.enabled {
		return nil, nil
	}
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}
	var out []Entry
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".json" {
			continue
		}
		e, err := s.read(filepath.Join(s.dir, f.Name()))
		if err != nil || s.expired(e) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) read(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	var raw struct {
		Entry
		Root map[string]any `json:"root"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Entry{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	root, err := tree.NormalizeMapping(raw.Root)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	// JSON drops the int/float distinction for whole numbers; validation
	// restores float options.
	root, err = resolve.Validate(root)
	if err != nil {
		return Entry{}, fmt.Errorf("snapshot %s: %w", path, err)
	}
	e := raw.Entry
	e.Root = root
	return e, nil
}

func (s *Store) expired(e Entry) bool {
	return s.ttlSeconds > 0 && s.now().Sub(e.CreatedAt) > time.Duration(s.ttlSeconds)*time.Second
}

// Clear removes every snapshot file and returns how many were removed.
func (s *Store) Clear() (int, error) {
	if !s.enabled || s.dir == "" {
		return 0, nil
	}
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading snapshot directory: %w", err)
	}
	var removed int
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, f.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats describes the contents of a Store.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats returns information about the store.
func (s *Store) GetStats() (Stats, error) {
	stats := Stats{Dir: s.dir}
	if !s.enabled || s.dir == "" {
		return stats, nil
	}
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading snapshot directory: %w", err)
	}
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".json" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
		if e, err := s.read(filepath.Join(s.dir, f.Name())); err == nil && s.expired(e) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the snapshot directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Enabled returns whether snapshots are persisted.
func (s *Store) Enabled() bool {
	return s.enabled
}

// Digest returns the SHA-256 of the canonical JSON encoding of m. Map keys
// are sorted by the encoder so equal mappings hash equally.
func Digest(m tree.Mapping) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding configuration: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

func (s *Store) entryPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func defaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fermicfg", "snapshots"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "fermicfg", "snapshots"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "fermicfg", "snapshots"), nil
		}
		return filepath.Join(home, "AppData", "Local", "fermicfg", "snapshots"), nil
	default:
		return filepath.Join(home, ".cache", "fermicfg", "snapshots"), nil
	}
}

// Resolution rebuilds the resolution recorded in e.
func (e Entry) Resolution() (*resolve.Resolution, error) {
	comps, err := resolve.Expand(e.Root)
	if err != nil {
		return nil, err
	}
	return &resolve.Resolution{Source: e.Source, Root: e.Root, Components: comps}, nil
}

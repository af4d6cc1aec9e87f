package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Store writes validated reports under Root following §6's layout:
// <store>/<kind>/<timestamp>-<target-name>.<ext>, tracked by an index file
// mapping (target, kind) to the most recently written path.
type Store struct {
	Root string
}

// NewStore roots a Store at dir, creating it if necessary.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: creating store root %s: %w", dir, err)
	}
	return &Store{Root: dir}, nil
}

// indexEntry is one row of the store's index.json.
type indexEntry struct {
	Target string `json:"target"`
	Kind   Kind   `json:"kind"`
	Path   string `json:"path"`
}

// Save validates payload against kind's schema, writes it as indented JSON
// under <store>/<kind>/<timestamp>-<target>.json, and updates index.json so
// a later lookup of (target, kind) resolves to this path. now is taken as a
// parameter rather than read internally so callers control timestamp
// formatting and so the function stays trivially testable.
func (s *Store) Save(kind Kind, target string, now time.Time, payload any) (string, error) {
	if err := Validate(kind, payload); err != nil {
		return "", err
	}

	dir := filepath.Join(s.Root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: creating %s directory: %w", kind, err)
	}

	stamp := now.UTC().Format("20060102T150405Z")
	name := fmt.Sprintf("%s-%s.json", stamp, sanitizeTargetName(target))
	path := filepath.Join(dir, name)

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshaling %s: %w", kind, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("report: writing %s: %w", path, err)
	}

	if err := s.updateIndex(target, kind, path); err != nil {
		return path, err
	}
	return path, nil
}

// Latest resolves (target, kind) to the most recently written report path,
// or "" if none is indexed.
func (s *Store) Latest(target string, kind Kind) (string, error) {
	entries, err := s.readIndex()
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Target == target && e.Kind == kind {
			return e.Path, nil
		}
	}
	return "", nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.Root, "index.json")
}

func (s *Store) readIndex() ([]indexEntry, error) {
	raw, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("report: reading index: %w", err)
	}
	var entries []indexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("report: parsing index: %w", err)
	}
	return entries, nil
}

func (s *Store) updateIndex(target string, kind Kind, path string) error {
	entries, err := s.readIndex()
	if err != nil {
		return err
	}

	replaced := false
	for i, e := range entries {
		if e.Target == target && e.Kind == kind {
			entries[i].Path = path
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, indexEntry{Target: target, Kind: kind, Path: path})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Target != entries[j].Target {
			return entries[i].Target < entries[j].Target
		}
		return entries[i].Kind < entries[j].Kind
	})

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshaling index: %w", err)
	}
	if err := os.WriteFile(s.indexPath(), raw, 0o644); err != nil {
		return fmt.Errorf("report: writing index: %w", err)
	}
	return nil
}

// sanitizeTargetName keeps the on-disk filename free of path separators a
// caller-supplied target name (e.g. a source path) might otherwise carry.
func sanitizeTargetName(target string) string {
	base := filepath.Base(target)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "target"
	}
	return base
}

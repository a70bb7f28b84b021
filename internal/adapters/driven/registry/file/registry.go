// Package file provides a file-backed collection registry.
//
// Registrations are stored as one JSON object per line, append-order
// preserved, in a single registry file. The format is human-readable
// and survives partial manual edits line by line.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.CollectionRegistry = (*Registry)(nil)

// registryFileName is the file holding the registrations.
const registryFileName = "indexes.jsonl"

// Registry persists index registrations in a JSONL file. All
// operations take an exclusive lock; registry traffic is a handful of
// records per command, never a hot path.
type Registry struct {
	mu   sync.Mutex
	path string
}

// NewRegistry creates a registry stored under dataDir. If dataDir is
// empty, defaults to ~/.ragdex/data.
func NewRegistry(dataDir string) (*Registry, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	return &Registry{
		path: filepath.Join(dataDir, registryFileName),
	}, nil
}

// Path returns the registry file path.
func (r *Registry) Path() string {
	return r.path
}

// Create registers a new named index.
func (r *Registry) Create(_ context.Context, collection domain.RAGCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	for _, existing := range records {
		if existing.Name == collection.Name {
			return fmt.Errorf("%w: index %q", domain.ErrAlreadyExists, collection.Name)
		}
	}

	return r.save(append(records, collection))
}

// Get resolves a name to its collection record.
func (r *Registry) Get(_ context.Context, name string) (*domain.RAGCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, c := range records {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: index %q", domain.ErrNotFound, name)
}

// List returns all registered indexes in creation order.
func (r *Registry) List(_ context.Context) ([]domain.RAGCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Delete removes a registration.
func (r *Registry) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, c := range records {
		if c.Name == name {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("%w: index %q", domain.ErrNotFound, name)
	}

	return r.save(kept)
}

// load reads all registrations. A missing file is an empty registry.
func (r *Registry) load() ([]domain.RAGCollection, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.RAGCollection{}, nil
		}
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	var records []domain.RAGCollection
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var c domain.RAGCollection
		if err := json.Unmarshal(text, &c); err != nil {
			return nil, fmt.Errorf("parse registry line %d: %w", line, err)
		}
		records = append(records, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	if records == nil {
		records = []domain.RAGCollection{}
	}
	return records, nil
}

// save atomically rewrites the registry file.
func (r *Registry) save(records []domain.RAGCollection) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), registryFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, c := range records {
		if err := enc.Encode(c); err != nil {
			tmp.Close()
			return fmt.Errorf("encode registry record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp registry: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}

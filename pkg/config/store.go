package config

import (
	"sync"

	"github.com/arthur-debert/ovm/pkg/types"
)

// Store holds the document shared by concurrently running handlers. Every
// mutation reconciles and persists while holding the lock, so writes are
// serialized and never lose a concurrent update.
type Store struct {
	mu   sync.Mutex
	fs   types.FS
	path string
	doc  *Document
}

// NewStore wraps an already loaded document
func NewStore(fsys types.FS, path string, doc *Document) *Store {
	if doc == nil {
		doc = Default()
	}
	return &Store{fs: fsys, path: path, doc: doc.Clone()}
}

// OpenStore loads the document at path into a Store
func OpenStore(fsys types.FS, path string) (*Store, error) {
	doc, err := Load(fsys, path)
	if err != nil {
		return nil, err
	}
	return NewStore(fsys, path, doc), nil
}

// Path returns the file the store persists to
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current document
func (s *Store) Snapshot() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Plugins returns a copy of the configured plugins
func (s *Store) Plugins() []types.Plugin {
	return s.Snapshot().Plugins
}

// Find returns the configured entry for id
func (s *Store) Find(id string) (types.Plugin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Find(id)
}

// Upsert adds or replaces p and persists the document
func (s *Store) Upsert(p types.Plugin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(Upsert(s.doc.Plugins, p))
}

// Remove drops id and persists the document
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(Without(s.doc.Plugins, id))
}

// commit writes plugins and only then swaps them in; callers hold mu
func (s *Store) commit(plugins []types.Plugin) error {
	next := &Document{Plugins: plugins}
	if err := Write(s.fs, next, s.path); err != nil {
		return err
	}
	s.doc = next
	return nil
}

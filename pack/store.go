package pack

import (
	"slices"

	"curse-modpack/addon"
)

// Store is an insertion-ordered mapping from mod ID to the installed file.
type Store struct {
	name  string
	keys  []int
	files map[int]*addon.File
}

// NewStore creates an empty store. The name is used in logs and errors only.
func NewStore(name string) *Store {
	return &Store{name: name, files: make(map[int]*addon.File)}
}

func (s *Store) Name() string { return s.name }

func (s *Store) Len() int { return len(s.keys) }

// Get returns the file stored under modID.
func (s *Store) Get(modID int) (*addon.File, bool) {
	f, ok := s.files[modID]
	return f, ok
}

func (s *Store) Has(modID int) bool {
	_, ok := s.files[modID]
	return ok
}

// Set stores f under its mod ID. An existing entry keeps its position.
func (s *Store) Set(f *addon.File) {
	id := f.Mod.ID
	if _, ok := s.files[id]; !ok {
		s.keys = append(s.keys, id)
	}
	s.files[id] = f
}

// Delete removes modID and returns the position it occupied, or -1.
func (s *Store) Delete(modID int) int {
	if _, ok := s.files[modID]; !ok {
		return -1
	}
	delete(s.files, modID)
	idx := slices.Index(s.keys, modID)
	s.keys = slices.Delete(s.keys, idx, idx+1)
	return idx
}

// insertAt puts f back at position idx; used to undo Delete exactly.
func (s *Store) insertAt(idx int, f *addon.File) {
	id := f.Mod.ID
	if _, ok := s.files[id]; ok || idx < 0 || idx > len(s.keys) {
		s.Set(f)
		return
	}
	s.keys = slices.Insert(s.keys, idx, id)
	s.files[id] = f
}

// Keys returns the mod IDs in insertion order.
func (s *Store) Keys() []int {
	return slices.Clone(s.keys)
}

// Files returns the stored files in insertion order.
func (s *Store) Files() []*addon.File {
	out := make([]*addon.File, 0, len(s.keys))
	for _, id := range s.keys {
		out = append(out, s.files[id])
	}
	return out
}

// Clone returns a shallow copy; the files themselves are shared.
func (s *Store) Clone() *Store {
	c := NewStore(s.name)
	for _, f := range s.Files() {
		c.Set(f)
	}
	return c
}

// File implements Pool.
func (s *Store) File(modID int) (*addon.File, error) {
	if f, ok := s.files[modID]; ok {
		return f, nil
	}
	return nil, missing(modID)
}

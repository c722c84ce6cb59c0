// Package pack manages the installed state of a mod-pack: dependency
// resolution, the explicit and dependency stores, and transactional
// file changes in the mods directory.
package pack

import (
	"iter"

	"curse-modpack/addon"

	"github.com/spf13/afero"
)

// ModPack is the in-memory state of one mod-pack.
//
// Not safe for concurrent mutation; callers serialize access.
type ModPack struct {
	Game addon.Game
	// Path is the directory holding the mod files.
	Path string
	// Mods holds the explicitly installed mods.
	Mods *Store
	// Dependencies holds mods installed only because something requires them.
	Dependencies *Store
	// Fs is the file system Path lives on.
	Fs afero.Fs
}

// New creates an empty mod-pack on the OS file system.
func New(game addon.Game, path string) *ModPack {
	return &ModPack{
		Game:         game,
		Path:         path,
		Mods:         NewStore("mods"),
		Dependencies: NewStore("dependencies"),
		Fs:           afero.NewOsFs(),
	}
}

// Installed is a read-only view over both stores.
type Installed struct {
	mp *ModPack
}

// Installed returns the view over explicit and dependency mods.
func (mp *ModPack) Installed() Installed {
	return Installed{mp: mp}
}

// Get looks modID up, explicit mods first.
func (in Installed) Get(modID int) (*addon.File, bool) {
	if f, ok := in.mp.Mods.Get(modID); ok {
		return f, true
	}
	return in.mp.Dependencies.Get(modID)
}

func (in Installed) Has(modID int) bool {
	_, ok := in.Get(modID)
	return ok
}

// File implements Pool.
func (in Installed) File(modID int) (*addon.File, error) {
	if f, ok := in.Get(modID); ok {
		return f, nil
	}
	return nil, missing(modID)
}

// Files returns explicit mods followed by dependencies.
func (in Installed) Files() []*addon.File {
	return append(in.mp.Mods.Files(), in.mp.Dependencies.Files()...)
}

// storeOf returns the store currently holding modID.
func (mp *ModPack) storeOf(modID int) *Store {
	switch {
	case mp.Mods.Has(modID):
		return mp.Mods
	case mp.Dependencies.Has(modID):
		return mp.Dependencies
	}
	return nil
}

// FilterObsoletes yields the files that are not installed yet or that are
// strictly newer than the installed file of the same mod. Input order is kept.
func (mp *ModPack) FilterObsoletes(files []*addon.File) iter.Seq[*addon.File] {
	installed := mp.Installed()
	return func(yield func(*addon.File) bool) {
		for _, f := range files {
			current, ok := installed.Get(f.Mod.ID)
			if ok && !current.Date.Before(f.Date) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// Orphans returns the dependency-only files not required by any explicit mod.
// When mods is non-nil it replaces the current explicit set for the computation.
func (mp *ModPack) Orphans(mods *Store) ([]*addon.File, error) {
	if mods == nil {
		mods = mp.Mods
	}

	pool := mp.Installed()
	required := make(map[int]bool)
	for _, root := range mods.Files() {
		tree, err := Resolve(root, pool)
		if err != nil {
			return nil, err
		}
		for _, id := range tree.Keys() {
			required[id] = true
		}
	}

	var orphans []*addon.File
	for _, dep := range mp.Dependencies.Files() {
		if !required[dep.Mod.ID] {
			orphans = append(orphans, dep)
		}
	}
	return orphans, nil
}

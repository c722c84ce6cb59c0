package pack

import (
	"context"
	"fmt"
	"slices"

	"curse-modpack/addon"
)

// Catalog provides the latest acceptable files of a mod and of everything it
// requires, the requested mod's file first. An empty result means no file
// qualifies.
type Catalog interface {
	LatestFileTree(ctx context.Context, game addon.Game, mod addon.Mod, minRelease addon.Release) ([]*addon.File, error)
}

// InstallChanges plans the installation of mod as an explicit mod.
func (mp *ModPack) InstallChanges(ctx context.Context, catalog Catalog, mod addon.Mod, minRelease addon.Release) ([]FileChange, error) {
	if mp.Mods.Has(mod.ID) {
		return nil, fmt.Errorf("%s: %w", mod.Name, ErrAlreadyInstalled)
	}
	if dep, ok := mp.Dependencies.Get(mod.ID); ok {
		return []FileChange{MarkExplicit(mp.Dependencies, mp.Mods, dep)}, nil
	}

	tree, err := catalog.LatestFileTree(ctx, mp.Game, mod, minRelease)
	if err != nil {
		return nil, err
	}
	if len(tree) == 0 {
		return nil, fmt.Errorf("%s: %w", mod.Name, ErrNoFileFound)
	}

	fresh := slices.Collect(mp.FilterObsoletes(tree))
	if len(fresh) == 0 {
		return nil, nil
	}

	changes := []FileChange{Installation(mp.Mods, fresh[0])}
	for _, f := range fresh[1:] {
		changes = append(changes, mp.dependencyChange(f))
	}
	return changes, nil
}

// RemoveChanges plans the removal of mod together with the dependencies
// nothing else requires afterwards.
func (mp *ModPack) RemoveChanges(mod addon.Mod) ([]FileChange, error) {
	installed := mp.Installed()
	if !installed.Has(mod.ID) {
		return nil, fmt.Errorf("%s: %w", mod.Name, ErrNotInstalled)
	}

	var dependents []addon.Mod
	for _, f := range installed.Files() {
		if f.Mod.ID == mod.ID || !f.Requires(mod.ID) {
			continue
		}
		if !slices.ContainsFunc(dependents, func(m addon.Mod) bool { return m.Name == f.Mod.Name }) {
			dependents = append(dependents, f.Mod)
		}
	}
	if len(dependents) > 0 {
		culprit := mod
		if f, ok := installed.Get(mod.ID); ok {
			culprit = f.Mod
		}
		return nil, &WouldBreakDependencyError{Culprit: culprit, Dependents: dependents}
	}

	var changes []FileChange
	remaining := mp.Mods
	if f, ok := mp.Mods.Get(mod.ID); ok {
		changes = append(changes, Removal(mp.Mods, f))
		remaining = mp.Mods.Clone()
		remaining.Delete(mod.ID)
	}

	orphans, err := mp.Orphans(remaining)
	if err != nil {
		return nil, err
	}
	for _, f := range orphans {
		changes = append(changes, Removal(mp.Dependencies, f))
	}
	return changes, nil
}

// UpgradeChanges plans the upgrade of an installed mod and its dependency tree.
// An empty plan means everything is up to date.
func (mp *ModPack) UpgradeChanges(ctx context.Context, catalog Catalog, mod addon.Mod, minRelease addon.Release) ([]FileChange, error) {
	if !mp.Installed().Has(mod.ID) {
		return nil, fmt.Errorf("%s: %w", mod.Name, ErrNotInstalled)
	}

	tree, err := catalog.LatestFileTree(ctx, mp.Game, mod, minRelease)
	if err != nil {
		return nil, err
	}

	var changes []FileChange
	for f := range mp.FilterObsoletes(tree) {
		changes = append(changes, mp.dependencyChange(f))
	}
	return changes, nil
}

// PruneChanges plans the removal of every current orphan.
func (mp *ModPack) PruneChanges() ([]FileChange, error) {
	orphans, err := mp.Orphans(nil)
	if err != nil {
		return nil, err
	}
	changes := make([]FileChange, 0, len(orphans))
	for _, f := range orphans {
		changes = append(changes, Removal(mp.Dependencies, f))
	}
	return changes, nil
}

// dependencyChange upgrades f in place when its mod is installed, otherwise
// installs it as a dependency.
func (mp *ModPack) dependencyChange(f *addon.File) FileChange {
	if store := mp.storeOf(f.Mod.ID); store != nil {
		old, _ := store.Get(f.Mod.ID)
		return Upgrade(store, old, f)
	}
	return Installation(mp.Dependencies, f)
}

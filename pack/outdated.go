package pack

import (
	"context"
	"slices"
	"sync"

	"curse-modpack/addon"
)

// Outdated describes an explicit mod whose tree has newer files available.
type Outdated struct {
	Mod     addon.Mod
	Current *addon.File
	Latest  *addon.File   // newest root file, nil when only dependencies changed
	Updates []*addon.File // every file an upgrade would install
	Err     error         // set when the catalog lookup failed
}

// Outdated checks every explicit mod against the catalog concurrently,
// running at most workers lookups at once. Results keep the order of Mods;
// mods that are up to date are omitted.
func (mp *ModPack) Outdated(ctx context.Context, catalog Catalog, minRelease addon.Release, workers int) []Outdated {
	if workers < 1 {
		workers = 1
	}
	mods := mp.Mods.Files()
	results := make([]*Outdated, len(mods))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, current := range mods {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = &Outdated{Mod: current.Mod, Current: current, Err: ctx.Err()}
				return
			}

			tree, err := catalog.LatestFileTree(ctx, mp.Game, current.Mod, minRelease)
			if err != nil {
				results[i] = &Outdated{Mod: current.Mod, Current: current, Err: err}
				return
			}
			updates := slices.Collect(mp.FilterObsoletes(tree))
			if len(updates) == 0 {
				return
			}
			o := &Outdated{Mod: current.Mod, Current: current, Updates: updates}
			if updates[0].Mod.ID == current.Mod.ID {
				o.Latest = updates[0]
			}
			results[i] = o
		}()
	}
	wg.Wait()

	var out []Outdated
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

package pack

import (
	"fmt"

	"curse-modpack/addon"
)

// Pool provides candidate files for dependency resolution, keyed by mod ID.
// Implementations return an error wrapping ErrMissingDependency when a mod
// is not available.
type Pool interface {
	File(modID int) (*addon.File, error)
}

// MapPool is a Pool backed by a plain map.
type MapPool map[int]*addon.File

func (p MapPool) File(modID int) (*addon.File, error) {
	if f, ok := p[modID]; ok {
		return f, nil
	}
	return nil, missing(modID)
}

func missing(modID int) error {
	return fmt.Errorf("mod %d: %w", modID, ErrMissingDependency)
}

// Resolve computes the transitive dependency closure of root.
//
// The result holds root first, followed by every required mod in
// breadth-first, first-discovered order. Each mod ID is looked up once,
// which also terminates dependency cycles.
func Resolve(root *addon.File, pool Pool) (*Store, error) {
	resolved := NewStore("resolved")
	resolved.Set(root)

	queue := append([]int(nil), root.Dependencies...)
	for i := 0; i < len(queue); i++ {
		id := queue[i]
		if resolved.Has(id) {
			continue
		}

		dep, err := pool.File(id)
		if err != nil {
			return nil, fmt.Errorf("resolving dependencies of %s: %w", root.Mod.Name, err)
		}
		if dep.Mod.ID != id {
			return nil, fmt.Errorf("pool returned %s for mod %d", dep, id)
		}
		queue = append(queue, dep.Dependencies...)
		resolved.Set(dep)
	}

	return resolved, nil
}

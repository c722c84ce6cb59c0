package pack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"curse-modpack/addon"
)

// DisabledSuffix is appended to a file moved aside while a change is in flight.
const DisabledSuffix = ".disabled"

// ChangeKind classifies a FileChange by its shape.
type ChangeKind string

const (
	KindInstall      ChangeKind = "install"
	KindUpgrade      ChangeKind = "upgrade"
	KindRemove       ChangeKind = "remove"
	KindMarkExplicit ChangeKind = "mark-explicit"
	KindMove         ChangeKind = "move"
)

// FileChange is one atomic transition of a mod's installed file between at
// most one source store and at most one destination store.
type FileChange struct {
	Source      *Store
	Old         *addon.File
	Destination *Store
	New         *addon.File
}

// Installation adds f to dest.
func Installation(dest *Store, f *addon.File) FileChange {
	return FileChange{Destination: dest, New: f}
}

// Upgrade replaces old with new inside store.
func Upgrade(store *Store, old, new *addon.File) FileChange {
	return FileChange{Source: store, Old: old, Destination: store, New: new}
}

// Removal drops f from source.
func Removal(source *Store, f *addon.File) FileChange {
	return FileChange{Source: source, Old: f}
}

// MarkExplicit moves f from the dependency store to the explicit store
// without touching the file system.
func MarkExplicit(deps, mods *Store, f *addon.File) FileChange {
	return FileChange{Source: deps, Old: f, Destination: mods, New: f}
}

func (c FileChange) hasSource() bool      { return c.Source != nil && c.Old != nil }
func (c FileChange) hasDestination() bool { return c.Destination != nil && c.New != nil }

// storeChanging reports whether the entry leaves its source store.
func (c FileChange) storeChanging() bool {
	return c.hasSource() && c.Source != c.Destination
}

// fileChanging reports whether the file on disk is replaced, added or removed.
func (c FileChange) fileChanging() bool {
	return !c.Old.Equal(c.New)
}

// Validate rejects changes with neither a complete source nor a complete destination.
func (c FileChange) Validate() error {
	if !c.hasSource() && !c.hasDestination() {
		return ErrInvalidChange
	}
	return nil
}

// Kind derives the change classification from its shape.
func (c FileChange) Kind() ChangeKind {
	switch {
	case !c.hasSource():
		return KindInstall
	case !c.hasDestination():
		return KindRemove
	case c.Source == c.Destination:
		return KindUpgrade
	case !c.fileChanging():
		return KindMarkExplicit
	}
	return KindMove
}

// ModID returns the mod the change is about.
func (c FileChange) ModID() int {
	if c.New != nil {
		return c.New.Mod.ID
	}
	if c.Old != nil {
		return c.Old.Mod.ID
	}
	return 0
}

func (c FileChange) String() string {
	switch c.Kind() {
	case KindInstall:
		return fmt.Sprintf("install %s into %s", c.New.Name, c.Destination.Name())
	case KindRemove:
		return fmt.Sprintf("remove %s from %s", c.Old.Name, c.Source.Name())
	case KindUpgrade:
		return fmt.Sprintf("upgrade %s -> %s", c.Old.Name, c.New.Name)
	case KindMarkExplicit:
		return fmt.Sprintf("mark %s as explicit", c.New.Mod.Name)
	}
	return fmt.Sprintf("move %s -> %s", c.Old.Name, c.New.Name)
}

// Txn is a FileChange in flight. Begin prepares it; exactly one of Commit
// or Rollback must follow.
type Txn struct {
	mp     *ModPack
	change FileChange

	sourceIndex  int    // position of Old in Source before removal, -1 if untouched
	disabledPath string // where Old was moved aside, "" if nothing was moved
	done         bool
}

// Begin enters the change: the old entry leaves its source store (when the
// store changes) and the old file is renamed aside (when the file changes).
func (mp *ModPack) Begin(change FileChange) (*Txn, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}

	tx := &Txn{mp: mp, change: change, sourceIndex: -1}

	if change.storeChanging() {
		tx.sourceIndex = change.Source.Delete(change.Old.Mod.ID)
	}

	if change.fileChanging() && change.Old != nil {
		oldPath := mp.filePath(change.Old)
		disabled := oldPath + DisabledSuffix
		err := mp.Fs.Rename(oldPath, disabled)
		switch {
		case err == nil:
			tx.disabledPath = disabled
		case errors.Is(err, os.ErrNotExist):
			// Nothing on disk to preserve.
		default:
			tx.restoreStore()
			return nil, fmt.Errorf("moving %s aside: %w", change.Old.Name, err)
		}
	}

	return tx, nil
}

// Change returns the change this transaction applies.
func (tx *Txn) Change() FileChange { return tx.change }

// Next returns the file whose content must be written to the mods
// directory, or nil when the change needs no download.
func (tx *Txn) Next() *addon.File {
	if tx.change.hasDestination() && tx.change.fileChanging() {
		return tx.change.New
	}
	return nil
}

// Disabled returns the path of the old file moved aside, or "".
func (tx *Txn) Disabled() string { return tx.disabledPath }

// Commit records the new file in its destination store and discards the
// old file that was moved aside. An ErrLeftover error means the change is committed but
// the moved-aside file was left behind.
func (tx *Txn) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true

	if tx.change.hasDestination() {
		tx.change.Destination.Set(tx.change.New)
	}
	if tx.disabledPath != "" {
		if err := tx.mp.Fs.Remove(tx.disabledPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrLeftover, tx.disabledPath, err)
		}
	}
	return nil
}

// Rollback restores the file system and the stores to their state before Begin.
func (tx *Txn) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true

	var errs []error
	if next := tx.Next(); next != nil {
		if err := tx.mp.Fs.Remove(tx.mp.filePath(next)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing partial %s: %w", next.Name, err))
		}
	}
	if tx.disabledPath != "" {
		if err := tx.mp.Fs.Rename(tx.disabledPath, tx.mp.filePath(tx.change.Old)); err != nil {
			errs = append(errs, fmt.Errorf("restoring %s: %w", tx.change.Old.Name, err))
		}
	}
	tx.restoreStore()
	return errors.Join(errs...)
}

func (tx *Txn) restoreStore() {
	if tx.change.storeChanging() {
		tx.change.Source.insertAt(tx.sourceIndex, tx.change.Old)
	}
}

// Replacing runs body inside the change; tx.Next tells body which file to
// download, if any. Any error or panic from body rolls the change back; the
// error is returned together with rollback failures. An error matching
// ErrLeftover means the change did commit.
func (mp *ModPack) Replacing(change FileChange, body func(tx *Txn) error) error {
	tx, err := mp.Begin(change)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := body(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

func (mp *ModPack) filePath(f *addon.File) string {
	return filepath.Join(mp.Path, f.Name)
}

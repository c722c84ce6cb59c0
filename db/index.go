package db

import (
	"errors"
	"fmt"
	"strings"

	"curse-modpack/addon"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrModNotFound is returned when no indexed mod matches.
	ErrModNotFound = errors.New("mod not found")
	// ErrAmbiguousMod is returned when a name matches more than one mod.
	ErrAmbiguousMod = errors.New("mod name is ambiguous")
)

// Index is the local search index of one game's mods.
type Index struct {
	DB     *gorm.DB
	GameID int
}

// Search returns the mods whose name or summary contains term, ordered by name.
func (ix Index) Search(term string) ([]addon.Mod, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var rows []Mod
	err := ix.DB.
		Where("game_id = ?", ix.GameID).
		Where("LOWER(name) LIKE ? OR LOWER(summary) LIKE ?", pattern, pattern).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", term, err)
	}
	return toAddons(rows), nil
}

// Find resolves a user supplied name to exactly one mod. An exact,
// case-insensitive name match wins; otherwise the name must be a substring
// of exactly one mod name.
func (ix Index) Find(name string) (addon.Mod, error) {
	var rows []Mod
	err := ix.DB.
		Where("game_id = ? AND LOWER(name) = ?", ix.GameID, strings.ToLower(name)).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return addon.Mod{}, err
	}
	if len(rows) == 0 {
		err = ix.DB.
			Where("game_id = ? AND LOWER(name) LIKE ?", ix.GameID, "%"+strings.ToLower(name)+"%").
			Limit(2).
			Find(&rows).Error
		if err != nil {
			return addon.Mod{}, err
		}
	}

	switch len(rows) {
	case 0:
		return addon.Mod{}, fmt.Errorf("%q: %w", name, ErrModNotFound)
	case 1:
		return rows[0].Addon(), nil
	}
	return addon.Mod{}, fmt.Errorf("%q: %w", name, ErrAmbiguousMod)
}

// WithID looks a mod up by its catalog identification.
func (ix Index) WithID(id int) (addon.Mod, error) {
	var row Mod
	err := ix.DB.Where("game_id = ?", ix.GameID).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return addon.Mod{}, fmt.Errorf("mod %d: %w", id, ErrModNotFound)
	}
	if err != nil {
		return addon.Mod{}, err
	}
	return row.Addon(), nil
}

// Len returns the number of indexed mods.
func (ix Index) Len() (int64, error) {
	var n int64
	err := ix.DB.Model(&Mod{}).Where("game_id = ?", ix.GameID).Count(&n).Error
	return n, err
}

// ReplaceMods swaps the indexed mods for mods and records the feed timestamp.
func (ix Index) ReplaceMods(mods []addon.Mod, timestamp int64) error {
	rows := make([]Mod, len(mods))
	for i, m := range mods {
		rows[i] = Mod{ID: m.ID, GameID: ix.GameID, Name: m.Name, Summary: m.Summary}
	}

	return ix.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", ix.GameID).Delete(&Mod{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 500).Error
			if err != nil {
				return err
			}
		}
		state := FeedState{GameID: ix.GameID, Timestamp: timestamp}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&state).Error
	})
}

// FeedTimestamp returns the timestamp of the feed the index was built from;
// ok is false when the index was never filled.
func (ix Index) FeedTimestamp() (ts int64, ok bool, err error) {
	var state FeedState
	err = ix.DB.First(&state, ix.GameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return state.Timestamp, true, nil
}

func toAddons(rows []Mod) []addon.Mod {
	out := make([]addon.Mod, len(rows))
	for i, r := range rows {
		out[i] = r.Addon()
	}
	return out
}

package db

import (
	"time"

	"curse-modpack/addon"

	"gorm.io/gorm"
)

// Mod is one catalog project in the local search index.
type Mod struct {
	ID      int    `gorm:"primaryKey;autoIncrement:false"` // Catalog mod identification
	GameID  int    `gorm:"index"`
	Name    string `gorm:"index"`
	Summary string
}

// Addon converts the row into the catalog value type.
func (m Mod) Addon() addon.Mod {
	return addon.Mod{ID: m.ID, Name: m.Name, Summary: m.Summary}
}

// FeedState remembers the timestamp of the feed the index was built from.
type FeedState struct {
	GameID    int `gorm:"primaryKey;autoIncrement:false"`
	Timestamp int64
	UpdatedAt time.Time
}

// ModVersion is a file replaced by an upgrade and kept for rollback.
type ModVersion struct {
	gorm.Model
	ModID        int `gorm:"index"`
	ModName      string
	ModSummary   string
	FileID       int
	FileName     string
	Date         time.Time
	Release      int
	URL          string
	Dependencies []int  `gorm:"serializer:json"`
	ArchivePath  string // Path to the archived file
}

// File rebuilds the archived file metadata.
func (v ModVersion) File() *addon.File {
	return &addon.File{
		ID:           v.FileID,
		Mod:          addon.Mod{ID: v.ModID, Name: v.ModName, Summary: v.ModSummary},
		Name:         v.FileName,
		Date:         v.Date,
		Release:      addon.Release(v.Release),
		URL:          v.URL,
		Dependencies: v.Dependencies,
	}
}

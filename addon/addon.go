// Package addon holds the value types describing catalog mods and their files.
package addon

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Game identifies the catalog and game version a mod-pack targets.
type Game struct {
	ID      int    // Catalog game identification (432 for Minecraft)
	Name    string // Catalog game name
	Version string // Game version the files must support, e.g. "1.12.2"
}

// Mod is a single game modification listed in the catalog.
type Mod struct {
	ID      int    // Catalog mod identification
	Name    string // Official mod name
	Summary string // Short mod description
}

func (m Mod) String() string {
	return fmt.Sprintf("%s (%d)", m.Name, m.ID)
}

// Release is the stability tier of a file. Tiers are totally ordered,
// Alpha < Beta < Release.
type Release int

const (
	Alpha   Release = 1
	Beta    Release = 2
	Stable  Release = 4
	unknown Release = 0
)

var releaseNames = map[Release]string{
	Alpha:  "Alpha",
	Beta:   "Beta",
	Stable: "Release",
}

// ParseRelease accepts the catalog release names case-insensitively.
func ParseRelease(s string) (Release, error) {
	for r, name := range releaseNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return unknown, fmt.Errorf("unknown release type %q", s)
}

func (r Release) String() string {
	if name, ok := releaseNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Release(%d)", int(r))
}

// Valid reports whether r is one of the known tiers.
func (r Release) Valid() bool {
	_, ok := releaseNames[r]
	return ok
}

// AtLeast reports whether r is acceptable for the minimal release min.
func (r Release) AtLeast(min Release) bool {
	return r >= min
}

// File is the metadata of one downloadable artifact of a mod.
// A File is never modified after construction; upgrades produce new values.
type File struct {
	ID           int       // File identification
	Mod          Mod       // Owning mod
	Name         string    // File system base name
	Date         time.Time // Publication date
	Release      Release
	URL          string // Remote download location
	Dependencies []int  // Required mod IDs, in declared order
}

// Equal compares all fields. A nil File equals only another nil File.
func (f *File) Equal(other *File) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.ID == other.ID &&
		f.Mod == other.Mod &&
		f.Name == other.Name &&
		f.Date.Equal(other.Date) &&
		f.Release == other.Release &&
		f.URL == other.URL &&
		slices.Equal(f.Dependencies, other.Dependencies)
}

// Requires reports whether modID is among the declared dependencies.
func (f *File) Requires(modID int) bool {
	return slices.Contains(f.Dependencies, modID)
}

func (f *File) String() string {
	return fmt.Sprintf("%s [%s, %s]", f.Name, f.Mod.Name, f.Release)
}

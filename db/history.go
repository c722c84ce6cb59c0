package db

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"curse-modpack/addon"

	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// ErrNoHistory is returned when a mod has no archived version.
var ErrNoHistory = errors.New("no previous version archived")

// LatestVersion returns the most recently archived version of modID.
func LatestVersion(tx *gorm.DB, modID int) (ModVersion, error) {
	var v ModVersion
	err := tx.Where("mod_id = ?", modID).Order("id DESC").First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ModVersion{}, fmt.Errorf("mod %d: %w", modID, ErrNoHistory)
	}
	return v, err
}

// Versions lists the archived versions of modID, newest first.
func Versions(tx *gorm.DB, modID int) ([]ModVersion, error) {
	var out []ModVersion
	err := tx.Where("mod_id = ?", modID).Order("id DESC").Find(&out).Error
	return out, err
}

// Archiver keeps files replaced by upgrades in Dir and records them.
// It implements pack.Archiver.
type Archiver struct {
	DB  *gorm.DB
	Dir string
}

// Archive moves the file at disabledPath into the archive and records it.
func (a Archiver) Archive(fs afero.Fs, disabledPath string, old *addon.File) error {
	if err := fs.MkdirAll(a.Dir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(a.Dir, fmt.Sprintf("%d-%s", old.ID, old.Name))
	if err := move(fs, disabledPath, target); err != nil {
		return fmt.Errorf("archiving %s: %w", old.Name, err)
	}

	v := ModVersion{
		ModID:        old.Mod.ID,
		ModName:      old.Mod.Name,
		ModSummary:   old.Mod.Summary,
		FileID:       old.ID,
		FileName:     old.Name,
		Date:         old.Date,
		Release:      int(old.Release),
		URL:          old.URL,
		Dependencies: old.Dependencies,
		ArchivePath:  target,
	}
	if err := a.DB.Create(&v).Error; err != nil {
		return fmt.Errorf("recording %s: %w", old.Name, err)
	}
	return nil
}

// move renames src to dst, copying when the rename crosses devices.
func move(fs afero.Fs, src, dst string) error {
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = fs.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = fs.Remove(dst)
		return err
	}
	in.Close()
	return fs.Remove(src)
}

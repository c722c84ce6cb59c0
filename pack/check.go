package pack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"curse-modpack/addon"

	"github.com/spf13/afero"
)

// Report lists disagreements between the stores and the mods directory.
type Report struct {
	Missing   []*addon.File // tracked, but absent on disk
	Untracked []string      // mod archives on disk nobody tracks
	Leftovers []string      // files moved aside by an interrupted change
}

// Clean reports whether nothing was found.
func (r *Report) Clean() bool {
	return len(r.Missing) == 0 && len(r.Untracked) == 0 && len(r.Leftovers) == 0
}

// Check compares the installed files with the content of the mods directory.
func (mp *ModPack) Check() (*Report, error) {
	entries, err := afero.ReadDir(mp.Fs, mp.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", mp.Path, err)
	}

	tracked := make(map[string]bool)
	report := &Report{}
	for _, f := range mp.Installed().Files() {
		tracked[f.Name] = true
		if _, err := mp.Fs.Stat(mp.filePath(f)); errors.Is(err, os.ErrNotExist) {
			report.Missing = append(report.Missing, f)
		} else if err != nil {
			return nil, err
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch ext := strings.ToLower(filepath.Ext(name)); {
		case ext == DisabledSuffix:
			report.Leftovers = append(report.Leftovers, name)
		case (ext == ".jar" || ext == ".zip") && !tracked[name]:
			report.Untracked = append(report.Untracked, name)
		}
	}
	slices.Sort(report.Leftovers)
	slices.Sort(report.Untracked)
	return report, nil
}

// Recover renames leftovers back to their original name when that name is
// free. It returns the restored file names.
func (mp *ModPack) Recover(report *Report) ([]string, error) {
	var restored []string
	for _, name := range report.Leftovers {
		original := strings.TrimSuffix(name, DisabledSuffix)
		target := filepath.Join(mp.Path, original)
		if _, err := mp.Fs.Stat(target); err == nil {
			continue
		}
		if err := mp.Fs.Rename(filepath.Join(mp.Path, name), target); err != nil {
			return restored, fmt.Errorf("restoring %s: %w", original, err)
		}
		restored = append(restored, original)
	}
	return restored, nil
}

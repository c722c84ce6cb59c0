package pack

import (
	"context"
	"fmt"
	"time"

	"curse-modpack/addon"

	"github.com/spf13/afero"
)

var baseDate = time.Date(2017, time.June, 1, 12, 0, 0, 0, time.UTC)

func testFile(modID int, name string, day int, deps ...int) *addon.File {
	return &addon.File{
		ID:           modID*100 + day,
		Mod:          addon.Mod{ID: modID, Name: name, Summary: name + " summary"},
		Name:         fmt.Sprintf("%s-%d.jar", name, day),
		Date:         baseDate.AddDate(0, 0, day),
		Release:      addon.Stable,
		URL:          fmt.Sprintf("https://files.example.com/%d/%d", modID, day),
		Dependencies: deps,
	}
}

// memPack returns an empty pack on an in-memory file system.
func memPack() *ModPack {
	mp := New(addon.Game{ID: 432, Name: "Minecraft", Version: "1.12.2"}, "mods")
	mp.Fs = afero.NewMemMapFs()
	_ = mp.Fs.MkdirAll(mp.Path, 0o755)
	return mp
}

// install places f in store and writes its content to disk.
func install(mp *ModPack, store *Store, f *addon.File) {
	store.Set(f)
	_ = afero.WriteFile(mp.Fs, mp.filePath(f), []byte(f.URL), 0o644)
}

type fakeCatalog map[int][]*addon.File

func (c fakeCatalog) LatestFileTree(_ context.Context, _ addon.Game, mod addon.Mod, _ addon.Release) ([]*addon.File, error) {
	return c[mod.ID], nil
}

// contentFetcher writes the file URL as content, or fails for listed names.
type contentFetcher struct {
	fail    map[string]error
	fetched []string
}

func (f *contentFetcher) Fetch(_ context.Context, file *addon.File, fs afero.Fs, dir string) error {
	f.fetched = append(f.fetched, file.Name)
	path := dir + "/" + file.Name
	if err := afero.WriteFile(fs, path, []byte("partial"), 0o644); err != nil {
		return err
	}
	if err, ok := f.fail[file.Name]; ok {
		return err
	}
	return afero.WriteFile(fs, path, []byte(file.URL), 0o644)
}

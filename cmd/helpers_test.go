package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"curse-modpack/addon"
	"curse-modpack/config"
	"curse-modpack/db"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	tinkers = addon.Mod{ID: 74072, Name: "Tinkers Construct", Summary: "Tool crafting"}
	mantle  = addon.Mod{ID: 74924, Name: "Mantle", Summary: "Shared code for Slime Knights mods"}
	jei     = addon.Mod{ID: 238222, Name: "Just Enough Items", Summary: "Item and recipe viewer"}
)

func modFile(mod addon.Mod, day int, deps ...int) *addon.File {
	return &addon.File{
		ID:           mod.ID*100 + day,
		Mod:          mod,
		Name:         fmt.Sprintf("%s-%d.jar", strings.ReplaceAll(mod.Name, " ", ""), day),
		Date:         time.Date(2017, time.June, day, 12, 0, 0, 0, time.UTC),
		Release:      addon.Stable,
		URL:          fmt.Sprintf("https://files.example.com/%d/%d", mod.ID, day),
		Dependencies: deps,
	}
}

type testCatalog map[int][]*addon.File

func (c testCatalog) LatestFileTree(_ context.Context, _ addon.Game, mod addon.Mod, _ addon.Release) ([]*addon.File, error) {
	return c[mod.ID], nil
}

// urlFetcher writes the file URL as its content.
type urlFetcher struct {
	fetched []string
}

func (f *urlFetcher) Fetch(_ context.Context, file *addon.File, fs afero.Fs, dir string) error {
	f.fetched = append(f.fetched, file.Name)
	return afero.WriteFile(fs, dir+"/"+file.Name, []byte(file.URL), 0o644)
}

type testIndex []addon.Mod

func (ix testIndex) Search(term string) ([]addon.Mod, error) {
	var out []addon.Mod
	for _, m := range ix {
		if strings.Contains(strings.ToLower(m.Name+" "+m.Summary), strings.ToLower(term)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (ix testIndex) Find(name string) (addon.Mod, error) {
	for _, m := range ix {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return addon.Mod{}, fmt.Errorf("%q: %w", name, db.ErrModNotFound)
}

func (ix testIndex) WithID(id int) (addon.Mod, error) {
	for _, m := range ix {
		if m.ID == id {
			return m, nil
		}
	}
	return addon.Mod{}, fmt.Errorf("mod %d: %w", id, db.ErrModNotFound)
}

// newTestApp returns an app on an in-memory file system with the descriptor
// at pack/modpack.yml. The catalog offers Tinkers (requiring Mantle) and JEI.
func newTestApp(t *testing.T) (*app, *bytes.Buffer, testCatalog, *urlFetcher) {
	t.Helper()

	catalog := testCatalog{
		tinkers.ID: {modFile(tinkers, 1, mantle.ID), modFile(mantle, 1)},
		mantle.ID:  {modFile(mantle, 1)},
		jei.ID:     {modFile(jei, 1)},
	}
	fetcher := &urlFetcher{}
	out := &bytes.Buffer{}

	a := &app{
		cfg: config.Config{
			GameName:    "Minecraft",
			GameID:      432,
			GameVersion: "1.12.2",
			ModsDir:     "mods",
		},
		packPath:   "pack/modpack.yml",
		minRelease: addon.Stable,
		catalog:    catalog,
		fetcher:    fetcher,
		index:      testIndex{tinkers, mantle, jei},
		fs:         afero.NewMemMapFs(),
		out:        out,
		log:        zap.NewNop().Sugar(),
	}
	if err := runNew(a, "", ""); err != nil {
		t.Fatalf("runNew failed: %v", err)
	}
	out.Reset()
	return a, out, catalog, fetcher
}

func modContent(t *testing.T, a *app, name string) string {
	t.Helper()
	data, err := afero.ReadFile(a.fs, "pack/mods/"+name)
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

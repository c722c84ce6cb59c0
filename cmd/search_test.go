package cmd

import (
	"context"
	"strings"
	"testing"

	"curse-modpack/addon"
)

func TestRunSearch(t *testing.T) {
	a, out, _, _ := newTestApp(t)

	if err := runSearch(a, "slime"); err != nil {
		t.Fatalf("runSearch failed: %v", err)
	}
	if !strings.Contains(out.String(), "74924") || !strings.Contains(out.String(), "Mantle") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out.String(), "Items") {
		t.Errorf("unrelated mod listed: %q", out)
	}

	out.Reset()
	if err := runSearch(a, "nothing like this"); err != nil {
		t.Fatalf("runSearch failed: %v", err)
	}
	if !strings.Contains(out.String(), "No mods match") {
		t.Errorf("output = %q", out)
	}
}

func TestRunSearchInstall(t *testing.T) {
	a, _, _, fetcher := newTestApp(t)

	var offered []addon.Mod
	original := choose
	choose = func(_ context.Context, mods []addon.Mod, installed func(int) bool) ([]addon.Mod, error) {
		offered = mods
		if installed(jei.ID) {
			t.Error("JEI reported as installed")
		}
		return []addon.Mod{jei}, nil
	}
	t.Cleanup(func() { choose = original })

	if err := runSearchInstall(context.Background(), a, "items"); err != nil {
		t.Fatalf("runSearchInstall failed: %v", err)
	}
	if len(offered) != 1 || offered[0].ID != jei.ID {
		t.Errorf("offered %v, want JEI only", offered)
	}
	if len(fetcher.fetched) != 1 {
		t.Errorf("fetched %v", fetcher.fetched)
	}
	mp, _, _ := a.loadPack()
	if !mp.Mods.Has(jei.ID) {
		t.Error("chosen mod not installed")
	}
}

func TestRunSearchInstallNothingChosen(t *testing.T) {
	a, _, _, fetcher := newTestApp(t)

	original := choose
	choose = func(context.Context, []addon.Mod, func(int) bool) ([]addon.Mod, error) { return nil, nil }
	t.Cleanup(func() { choose = original })

	if err := runSearchInstall(context.Background(), a, "mantle"); err != nil {
		t.Fatalf("runSearchInstall failed: %v", err)
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("fetched %v after an empty selection", fetcher.fetched)
	}
}

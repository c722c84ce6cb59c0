package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"curse-modpack/addon"
	"curse-modpack/config"
	"curse-modpack/curse"
	"curse-modpack/db"
	"curse-modpack/logger"
	"curse-modpack/pack"
	"curse-modpack/ui"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// modIndex is the local search index the commands resolve names with.
type modIndex interface {
	Search(term string) ([]addon.Mod, error)
	Find(name string) (addon.Mod, error)
	WithID(id int) (addon.Mod, error)
}

// app carries everything a command needs.
type app struct {
	cfg        config.Config
	packPath   string
	minRelease addon.Release

	client   *curse.Client
	catalog  pack.Catalog
	fetcher  pack.Fetcher
	archiver pack.Archiver // nil unless old versions are kept
	index    modIndex
	history  *gorm.DB

	fs    afero.Fs
	out   io.Writer
	log   *zap.SugaredLogger
	quiet bool
	tui   bool
}

// bootstrap handles shared initialization logic for commands.
func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	minRelease, err := cfg.Release()
	if err != nil {
		return nil, err
	}

	if err := db.InitDatabase(cfg.DatabasePath); err != nil {
		return nil, err
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	client, err := curse.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}
	client.Log = logger.Log
	if auth, err := loadToken(cfg.TokenPath); err == nil {
		client.Auth = auth
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Log.Warnw("Ignoring stored credentials", zap.String("path", cfg.TokenPath), zap.Error(err))
	}

	index := db.Index{DB: db.DB, GameID: cfg.GameID}
	client.Mods = index

	a := &app{
		cfg:        cfg,
		packPath:   cfg.PackFile,
		minRelease: minRelease,
		client:     client,
		catalog:    client,
		fetcher:    client,
		index:      index,
		history:    db.DB,
		fs:         afero.NewOsFs(),
		out:        cmd.OutOrStdout(),
		log:        logger.Log,
		quiet:      flags.quiet,
		tui:        flags.tui,
	}
	if flags.pack != "" {
		a.packPath = flags.pack
	}
	if cfg.KeepOldVersions {
		a.archiver = db.Archiver{DB: db.DB, Dir: cfg.ArchiveDir}
	}

	if err := refreshIndex(cmd.Context(), a, client, index, flags.refresh); err != nil {
		if flags.refresh {
			return nil, err
		}
		logger.Log.Warnw("Failed to refresh the mod index", zap.Error(err))
	}
	return a, nil
}

// refreshIndex downloads the project feed when the index is empty, or when
// forced and the feed changed since the last download.
func refreshIndex(ctx context.Context, a *app, client *curse.Client, index db.Index, force bool) error {
	current, ok, err := index.FeedTimestamp()
	if err != nil {
		return err
	}
	if ok && !force {
		return nil
	}

	game := a.cfg.Game()
	remote, err := client.FeedTimestamp(ctx, game)
	if err != nil {
		return err
	}
	if ok && remote == current {
		a.printf("Mod index is current.\n")
		return nil
	}

	a.printf("Downloading the %s mod index...\n", game.Name)
	mods, err := client.Feed(ctx, game)
	if err != nil {
		return err
	}
	return index.ReplaceMods(mods, remote)
}

func loadToken(path string) (*curse.Authorization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return curse.LoadAuthorization(f)
}

func (a *app) printf(format string, args ...any) {
	if !a.quiet {
		fmt.Fprintf(a.out, format, args...)
	}
}

// loadPack reads the descriptor. The returned pack's Path is resolved against
// the descriptor's directory; stored is the path as written in the file.
func (a *app) loadPack() (mp *pack.ModPack, stored string, err error) {
	f, err := a.fs.Open(a.packPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("%s not found, create a mod-pack with 'new' first: %w", a.packPath, err)
	}
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	mp, err = pack.Load(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", a.packPath, err)
	}
	mp.Fs = a.fs
	stored = mp.Path
	if !filepath.IsAbs(mp.Path) {
		mp.Path = filepath.Join(filepath.Dir(a.packPath), mp.Path)
	}
	return mp, stored, nil
}

// savePack writes the descriptor through a temporary file so a failure never
// leaves a truncated descriptor behind.
func (a *app) savePack(mp *pack.ModPack, stored string) error {
	resolved := mp.Path
	mp.Path = stored
	defer func() { mp.Path = resolved }()

	tmp := a.packPath + ".tmp"
	f, err := a.fs.Create(tmp)
	if err != nil {
		return err
	}
	if err := mp.Dump(f); err != nil {
		f.Close()
		_ = a.fs.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = a.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = a.fs.Remove(tmp)
		return err
	}
	return a.fs.Rename(tmp, a.packPath)
}

// withModPack loads the pack, runs fn, and persists the pack only when fn
// succeeds.
func (a *app) withModPack(fn func(mp *pack.ModPack) error) error {
	mp, stored, err := a.loadPack()
	if err != nil {
		return err
	}
	if err := fn(mp); err != nil {
		return err
	}
	return a.savePack(mp, stored)
}

// apply runs changes through the executor, reporting progress.
func (a *app) apply(ctx context.Context, mp *pack.ModPack, changes []pack.FileChange) error {
	if len(changes) == 0 {
		return nil
	}
	if err := mp.Fs.MkdirAll(mp.Path, 0o755); err != nil {
		return err
	}

	exec := &pack.Executor{Fetcher: a.fetcher, Archiver: a.archiver, Log: a.log}
	if a.tui {
		return runWithProgress(ctx, exec, mp, changes)
	}
	exec.Observer = a.report
	return exec.Apply(ctx, mp, changes)
}

func (a *app) report(ev pack.Event) {
	switch ev.Type {
	case pack.EventCommit:
		a.printf("%s %s\n", ui.Success("✓"), ev.Change)
	case pack.EventRollback:
		a.printf("%s %s: %v\n", ui.Error("✗"), ev.Change, ev.Err)
	}
}

// withRelease overrides the configured minimum release tier for this run.
// An empty value keeps MIN_RELEASE.
func (a *app) withRelease(value string) error {
	if value == "" {
		return nil
	}
	r, err := addon.ParseRelease(value)
	if err != nil {
		return fmt.Errorf("--release: %w", err)
	}
	a.minRelease = r
	return nil
}

// findInstalled resolves name against the installed mods first, by exact
// case-insensitive name or by ID, falling back to the search index.
func (a *app) findInstalled(mp *pack.ModPack, name string) (addon.Mod, error) {
	for _, f := range mp.Installed().Files() {
		if strings.EqualFold(f.Mod.Name, name) || fmt.Sprint(f.Mod.ID) == name {
			return f.Mod, nil
		}
	}
	return a.index.Find(name)
}

// findMod resolves name through the search index; a numeric name is a mod ID.
func (a *app) findMod(name string) (addon.Mod, error) {
	var id int
	if _, err := fmt.Sscanf(name, "%d", &id); err == nil && fmt.Sprint(id) == name {
		return a.index.WithID(id)
	}
	return a.index.Find(name)
}

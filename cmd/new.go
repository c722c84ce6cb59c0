package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"curse-modpack/pack"

	"github.com/spf13/cobra"
)

var newFlags struct {
	version string
	modsDir string
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new, empty mod-pack",
	Long: `Create a new mod-pack descriptor and its mods directory.
Example: curse-modpack new --version 1.12.2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return runNew(a, newFlags.version, newFlags.modsDir)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newFlags.version, "version", "", "game version the mod-pack targets (default GAME_VERSION)")
	newCmd.Flags().StringVar(&newFlags.modsDir, "mods-dir", "", "mods directory, relative to the descriptor (default MODS_DIR)")
}

func runNew(a *app, version, modsDir string) error {
	if version == "" {
		version = a.cfg.GameVersion
	}
	if version == "" {
		return errors.New("no game version given, use --version or GAME_VERSION")
	}
	if modsDir == "" {
		modsDir = a.cfg.ModsDir
	}

	if _, err := a.fs.Stat(a.packPath); err == nil {
		return fmt.Errorf("%s already exists", a.packPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	game := a.cfg.Game()
	game.Version = version
	mp := pack.New(game, modsDir)
	mp.Fs = a.fs

	dir := modsDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(a.packPath), dir)
	}
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := a.savePack(mp, modsDir); err != nil {
		return err
	}
	a.printf("Created %s for %s %s\n", a.packPath, game.Name, version)
	return nil
}

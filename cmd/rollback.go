package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"curse-modpack/addon"
	"curse-modpack/db"
	"curse-modpack/pack"
	"curse-modpack/ui"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rollbackCmd represents the rollback command
var rollbackCmd = &cobra.Command{
	Use:   "rollback <mod>",
	Short: "Restore the previously installed file of a mod",
	Long: `Restore the previously installed file of a mod.
Example: curse-modpack rollback Mantle

Only files replaced while KEEP_OLD_VERSIONS was enabled can be restored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return runRollback(cmd.Context(), a, args[0])
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}

// archiveFetcher serves a file's content from the version archive.
type archiveFetcher struct {
	path string
}

func (f archiveFetcher) Fetch(_ context.Context, file *addon.File, fs afero.Fs, dir string) error {
	in, err := fs.Open(f.path)
	if err != nil {
		return fmt.Errorf("archive file: %w", err)
	}
	defer in.Close()

	out, err := fs.Create(filepath.Join(dir, file.Name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func runRollback(ctx context.Context, a *app, name string) error {
	if a.history == nil {
		return errors.New("no version history available")
	}

	return a.withModPack(func(mp *pack.ModPack) error {
		mod, err := a.findInstalled(mp, name)
		if err != nil {
			return err
		}
		current, ok := mp.Installed().Get(mod.ID)
		if !ok {
			return fmt.Errorf("%s: %w", mod.Name, pack.ErrNotInstalled)
		}
		store := mp.Mods
		if !store.Has(mod.ID) {
			store = mp.Dependencies
		}

		previous, err := db.LatestVersion(a.history, mod.ID)
		if err != nil {
			return err
		}
		if previous.ArchivePath == "" {
			return fmt.Errorf("previous version of %s has no archived file", mod.Name)
		}
		if _, err := mp.Fs.Stat(previous.ArchivePath); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("archived file %s is gone", previous.ArchivePath)
		}

		archived := previous.File()
		if current.Equal(archived) {
			a.printf("%s is already at %s\n", mod.Name, current.Name)
			return nil
		}

		log := a.log.With(zap.Int("mod_id", mod.ID), zap.String("mod", mod.Name))
		log.Infow("Attempting rollback", zap.String("from", current.Name), zap.String("to", previous.FileName))

		exec := &pack.Executor{Fetcher: archiveFetcher{path: previous.ArchivePath}, Log: a.log, Observer: a.report}
		if err := exec.Apply(ctx, mp, []pack.FileChange{pack.Upgrade(store, current, archived)}); err != nil {
			return err
		}

		if err := a.history.Delete(&previous).Error; err != nil {
			log.Warnw("Failed to delete history record", zap.Error(err))
		}
		if err := mp.Fs.Remove(previous.ArchivePath); err != nil {
			log.Warnw("Failed to delete archived file", zap.String("file", previous.ArchivePath), zap.Error(err))
		}

		log.Infow("Rollback successful")
		a.printf("%s Rolled back %s to %s\n", ui.Success("✓"), mod.Name, previous.FileName)
		return nil
	})
}

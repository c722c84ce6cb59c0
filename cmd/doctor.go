package cmd

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"curse-modpack/ui"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var doctorFlags struct {
	fix bool
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Compare the mod-pack with the content of the mods directory",
	Long: `Reports tracked files missing from the mods directory, mod archives
nothing tracks, and files left aside by an interrupted change.

With --fix, leftovers are restored and missing files downloaded again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return runDoctor(cmd.Context(), a, doctorFlags.fix)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFlags.fix, "fix", false, "restore leftovers and download missing files")
}

func runDoctor(ctx context.Context, a *app, fix bool) error {
	mp, _, err := a.loadPack()
	if err != nil {
		return err
	}
	report, err := mp.Check()
	if err != nil {
		return err
	}
	if report.Clean() {
		fmt.Fprintln(a.out, ui.Success("The mods directory matches the mod-pack."))
		return nil
	}

	for _, f := range report.Missing {
		fmt.Fprintf(a.out, "missing    %s (%s)\n", f.Name, f.Mod.Name)
	}
	if len(report.Missing) > 0 {
		fmt.Fprintln(a.out, ui.Colorize("A missing file may come from an interrupted removal; run 'remove' on its mod instead of --fix if it should stay gone.", ui.ColorYellow))
	}
	for _, name := range report.Untracked {
		hash, err := calculateSHA1(mp.Fs, filepath.Join(mp.Path, name))
		if err != nil {
			a.log.Warnw("Failed to calculate hash", zap.String("file", name), zap.Error(err))
		}
		fmt.Fprintf(a.out, "untracked  %s %s\n", name, ui.Colorize(hash, ui.ColorGrey))
	}
	for _, name := range report.Leftovers {
		fmt.Fprintf(a.out, "leftover   %s\n", name)
	}

	if !fix {
		return nil
	}

	restored, err := mp.Recover(report)
	for _, name := range restored {
		fmt.Fprintf(a.out, "%s restored %s\n", ui.Success("✓"), name)
	}
	if err != nil {
		return err
	}
	for _, f := range report.Missing {
		if slices.Contains(restored, f.Name) {
			continue
		}
		if err := a.fetcher.Fetch(ctx, f, mp.Fs, mp.Path); err != nil {
			return fmt.Errorf("downloading %s: %w", f.Name, err)
		}
		fmt.Fprintf(a.out, "%s downloaded %s\n", ui.Success("✓"), f.Name)
	}
	return nil
}

// calculateSHA1 identifies an untracked file for the report.
func calculateSHA1(fs afero.Fs, filePath string) (string, error) {
	file, err := fs.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha1.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}


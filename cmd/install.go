package cmd

import (
	"context"
	"errors"
	"fmt"

	"curse-modpack/addon"
	"curse-modpack/pack"

	"github.com/spf13/cobra"
)

var releaseFlags struct {
	install string
	upgrade string
}

var installCmd = &cobra.Command{
	Use:   "install <mod>...",
	Short: "Install mods together with everything they require",
	Long: `Install mods by name or catalog ID.
Example: curse-modpack install "Tinkers Construct"

A mod that is already installed as a dependency is only marked as
explicitly installed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		if err := a.withRelease(releaseFlags.install); err != nil {
			return err
		}
		mods := make([]addon.Mod, 0, len(args))
		for _, name := range args {
			mod, err := a.findMod(name)
			if err != nil {
				return err
			}
			mods = append(mods, mod)
		}
		return runInstall(cmd.Context(), a, mods)
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <mod>...",
	Aliases: []string{"rm"},
	Short:   "Remove mods and the dependencies nothing else needs",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return runRemove(cmd.Context(), a, args)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)

	installCmd.Flags().StringVar(&releaseFlags.install, "release", "", "minimum release tier: alpha, beta or release (default MIN_RELEASE)")
}

// runInstall installs each mod in turn. Mods already installed are reported
// and skipped; ErrAlreadyInstalled is returned only when nothing changed.
func runInstall(ctx context.Context, a *app, mods []addon.Mod) error {
	return a.withModPack(func(mp *pack.ModPack) error {
		applied := 0
		var skipped error
		for _, mod := range mods {
			changes, err := mp.InstallChanges(ctx, a.catalog, mod, a.minRelease)
			if errors.Is(err, pack.ErrAlreadyInstalled) {
				a.printf("%s is already installed\n", mod.Name)
				skipped = err
				continue
			}
			if err != nil {
				return err
			}
			if err := a.apply(ctx, mp, changes); err != nil {
				return err
			}
			applied++
		}
		if applied == 0 && skipped != nil {
			return skipped
		}
		return nil
	})
}

func runRemove(ctx context.Context, a *app, names []string) error {
	return a.withModPack(func(mp *pack.ModPack) error {
		for _, name := range names {
			mod, err := a.findInstalled(mp, name)
			if err != nil {
				return err
			}
			changes, err := mp.RemoveChanges(mod)
			if err != nil {
				return err
			}
			if err := a.apply(ctx, mp, changes); err != nil {
				return fmt.Errorf("removing %s: %w", mod.Name, err)
			}
		}
		return nil
	})
}

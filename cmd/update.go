package cmd

import (
	"context"
	"errors"
	"fmt"

	"curse-modpack/addon"
	"curse-modpack/pack"
	"curse-modpack/ui"

	"github.com/spf13/cobra"
)

var upgradeFlags struct {
	all bool
}

// upgradeCmd represents the upgrade command
var upgradeCmd = &cobra.Command{
	Use:     "upgrade [mod]...",
	Aliases: []string{"update"},
	Short:   "Upgrade mods and their dependencies to the latest files",
	Long: `Checks the catalog for newer files of the named mods, or of every
explicitly installed mod with --all, and installs them together with any
newer or newly required dependencies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !upgradeFlags.all {
			return errors.New("name the mods to upgrade or pass --all")
		}
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		if err := a.withRelease(releaseFlags.upgrade); err != nil {
			return err
		}
		return runUpgrade(cmd.Context(), a, args, upgradeFlags.all)
	},
}

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List explicitly installed mods with newer files available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return runOutdated(cmd.Context(), a)
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove dependencies no installed mod requires",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return runPrune(cmd.Context(), a)
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(pruneCmd)

	upgradeCmd.Flags().BoolVarP(&upgradeFlags.all, "all", "a", false, "upgrade every explicitly installed mod")
	upgradeCmd.Flags().StringVar(&releaseFlags.upgrade, "release", "", "minimum release tier: alpha, beta or release (default MIN_RELEASE)")
}

// outdatedWorkers bounds concurrent catalog lookups.
const outdatedWorkers = 8

func runUpgrade(ctx context.Context, a *app, names []string, all bool) error {
	return a.withModPack(func(mp *pack.ModPack) error {
		var targets []addon.Mod
		if all {
			for _, f := range mp.Mods.Files() {
				targets = append(targets, f.Mod)
			}
		} else {
			for _, name := range names {
				mod, err := a.findInstalled(mp, name)
				if err != nil {
					return err
				}
				targets = append(targets, mod)
			}
		}

		upgraded := 0
		for _, mod := range targets {
			log := a.log.With("mod_id", mod.ID, "mod", mod.Name)
			log.Infow("Checking for upgrades")

			changes, err := mp.UpgradeChanges(ctx, a.catalog, mod, a.minRelease)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				log.Infow("Mod is already up to date")
				continue
			}
			if err := a.apply(ctx, mp, changes); err != nil {
				return err
			}
			upgraded += len(changes)
		}

		if upgraded == 0 {
			return ErrAlreadyUpToDate
		}
		a.printf("Upgraded %d file(s).\n", upgraded)
		return nil
	})
}

func runOutdated(ctx context.Context, a *app) error {
	mp, _, err := a.loadPack()
	if err != nil {
		return err
	}

	results := mp.Outdated(ctx, a.catalog, a.minRelease, outdatedWorkers)
	if len(results) == 0 {
		fmt.Fprintln(a.out, "All mods are up to date.")
		return nil
	}

	for _, o := range results {
		switch {
		case o.Err != nil:
			fmt.Fprintf(a.out, "  %-32s %s\n", o.Mod.Name, ui.Error(o.Err.Error()))
		case o.Latest != nil:
			fmt.Fprintf(a.out, "  %-32s %s -> %s (%s)\n", o.Mod.Name, o.Current.Name, o.Latest.Name, ui.Release(o.Latest.Release))
		default:
			fmt.Fprintf(a.out, "  %-32s %d dependency update(s)\n", o.Mod.Name, len(o.Updates))
		}
	}
	return nil
}

func runPrune(ctx context.Context, a *app) error {
	return a.withModPack(func(mp *pack.ModPack) error {
		changes, err := mp.PruneChanges()
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			a.printf("Nothing to prune.\n")
			return nil
		}
		return a.apply(ctx, mp, changes)
	})
}

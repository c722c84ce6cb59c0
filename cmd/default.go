package cmd

import (
	"fmt"

	"curse-modpack/addon"
	"curse-modpack/pack"
	"curse-modpack/ui"

	"github.com/spf13/cobra"
)

// listCmd is also what runs when no subcommand is given.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the installed mods",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return runList(a)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(a *app) error {
	mp, _, err := a.loadPack()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s, mods in %s\n", ui.Bold(mp.Game.Name), mp.Game.Version, mp.Path)
	printStore(a, "Mods", mp.Mods)
	printStore(a, "Dependencies", mp.Dependencies)
	return nil
}

func printStore(a *app, title string, s *pack.Store) {
	fmt.Fprintf(a.out, "\n%s (%d)\n", ui.Bold(title), s.Len())
	for _, f := range s.Files() {
		fmt.Fprintln(a.out, formatFile(f))
	}
}

func formatFile(f *addon.File) string {
	return fmt.Sprintf("  %-32s %-8s %s  %s",
		f.Mod.Name,
		ui.Release(f.Release),
		f.Date.Format("2006-01-02"),
		f.Name,
	)
}

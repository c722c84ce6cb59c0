package cmd

import (
	"context"
	"fmt"
	"strings"

	"curse-modpack/addon"
	"curse-modpack/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	install bool
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Search the mod index by name or summary",
	Long: `Search the mod index by name or summary.
With --install, pick mods from the results and install them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		term := strings.Join(args, " ")
		if searchFlags.install {
			return runSearchInstall(cmd.Context(), a, term)
		}
		return runSearch(a, term)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVarP(&searchFlags.install, "install", "i", false, "choose mods from the results to install")
}

func runSearch(a *app, term string) error {
	mods, err := a.index.Search(term)
	if err != nil {
		return err
	}
	if len(mods) == 0 {
		fmt.Fprintf(a.out, "No mods match %q.\n", term)
		return nil
	}
	for _, mod := range mods {
		fmt.Fprintf(a.out, "%-8d %s\n", mod.ID, ui.Bold(mod.Name))
		if mod.Summary != "" {
			fmt.Fprintf(a.out, "         %s\n", mod.Summary)
		}
	}
	return nil
}

func runSearchInstall(ctx context.Context, a *app, term string) error {
	mods, err := a.index.Search(term)
	if err != nil {
		return err
	}
	if len(mods) == 0 {
		fmt.Fprintf(a.out, "No mods match %q.\n", term)
		return nil
	}

	mp, _, err := a.loadPack()
	if err != nil {
		return err
	}
	chosen, err := choose(ctx, mods, mp.Installed().Has)
	if err != nil {
		return err
	}
	if len(chosen) == 0 {
		return nil
	}
	return runInstall(ctx, a, chosen)
}

// choose lets the user pick mods in the terminal.
var choose = func(ctx context.Context, mods []addon.Mod, installed func(int) bool) ([]addon.Mod, error) {
	p := tea.NewProgram(ui.NewSelect(mods, installed), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}
	return final.(ui.SelectModel).Chosen(), nil
}


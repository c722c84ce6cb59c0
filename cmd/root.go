package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"curse-modpack/curse"
	"curse-modpack/db"
	"curse-modpack/logger"
	"curse-modpack/pack"
	"curse-modpack/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrAlreadyUpToDate is returned when an upgrade finds nothing newer.
var ErrAlreadyUpToDate = errors.New("everything is up to date")

var flags struct {
	pack    string
	quiet   bool
	refresh bool
	tui     bool
}

var rootCmd = &cobra.Command{
	Use:   "curse-modpack",
	Short: "Manage a mod-pack of CurseForge mods",
	Long: `Installs, upgrades and removes mods from the CurseForge catalog,
keeping track of what each mod requires.

The mod-pack is described by a YAML file (modpack.yml by default) kept next
to the mods directory. Run without a command to list the installed mods.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.pack, "pack", "", "mod-pack descriptor to use (default PACK_FILE)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "only print errors")
	pf.BoolVar(&flags.refresh, "refresh", false, "refresh the local mod index from the project feed")
	pf.BoolVar(&flags.tui, "tui", false, "show an interactive progress view while applying changes")

	rootCmd.RunE = listCmd.RunE
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return reportError(os.Stderr, err)
	}
	return 0
}

// exitCode maps an error to the process exit status. Requests that are
// already satisfied are not failures.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pack.ErrAlreadyInstalled), errors.Is(err, ErrAlreadyUpToDate):
		return 0
	}
	return 1
}

func reportError(w io.Writer, err error) int {
	code := exitCode(err)
	if code == 0 {
		fmt.Fprintln(w, describeError(err))
		return 0
	}
	logger.Log.Errorw("Command failed", zap.Error(err))
	fmt.Fprintln(w, ui.Error("Error: ")+describeError(err))
	return code
}

func describeError(err error) string {
	var breakErr *pack.WouldBreakDependencyError
	var applyErr *pack.ApplyError
	switch {
	case errors.As(err, &breakErr):
		names := make([]string, len(breakErr.Dependents))
		for i, m := range breakErr.Dependents {
			names[i] = m.Name
		}
		return fmt.Sprintf("cannot remove %s, it is required by: %s", breakErr.Culprit.Name, strings.Join(names, ", "))
	case errors.As(err, &applyErr):
		msg := fmt.Sprintf("%s failed: %v", applyErr.Change, applyErr.Err)
		if applyErr.Committed > 0 {
			msg += fmt.Sprintf("\n%d earlier change(s) were applied but not recorded; run 'doctor' to inspect the mods directory", applyErr.Committed)
		}
		return msg
	case errors.Is(err, pack.ErrInvalidStream):
		return err.Error() + "\nthe descriptor was left untouched"
	case errors.Is(err, db.ErrAmbiguousMod):
		return err.Error() + "; use 'search' to find the exact name"
	case errors.Is(err, curse.ErrInvalidCredentials):
		return "login rejected: " + err.Error()
	}
	return err.Error()
}

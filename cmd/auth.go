package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"curse-modpack/config"
	"curse-modpack/curse"
	"curse-modpack/logger"
	"curse-modpack/ui"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var authFlags struct {
	user     string
	password string
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in to the catalog proxy and store the session",
	Long: `Log in to the catalog proxy and store the session token.
The password is read from standard input when --password is not given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		client, err := curse.NewClient(cfg)
		if err != nil {
			return err
		}
		client.Log = logger.Log

		password := authFlags.password
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			if password, err = readLine(cmd.InOrStdin()); err != nil {
				return err
			}
		}
		return runAuth(cmd.Context(), client, afero.NewOsFs(), cfg.TokenPath, authFlags.user, password, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().StringVarP(&authFlags.user, "user", "u", "", "account name")
	authCmd.Flags().StringVarP(&authFlags.password, "password", "p", "", "account password")
	_ = authCmd.MarkFlagRequired("user")
}

func runAuth(ctx context.Context, client *curse.Client, fs afero.Fs, tokenPath, user, password string, out io.Writer) error {
	auth, err := client.Login(ctx, user, password)
	if err != nil {
		return err
	}
	if err := saveToken(fs, tokenPath, auth); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	logger.Log.Infow("Session stored", zap.String("path", tokenPath), zap.Int("user_id", auth.UserID))
	fmt.Fprintf(out, "%s Logged in as %s\n", ui.Success("✓"), user)
	return nil
}

// saveToken writes the session readable by the owner only.
func saveToken(fs afero.Fs, path string, auth *curse.Authorization) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := auth.Dump(f); err != nil {
		f.Close()
		_ = fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	return fs.Rename(tmp, path)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

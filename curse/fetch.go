package curse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"curse-modpack/addon"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrNotADirectory is returned when the download target is not a directory.
var ErrNotADirectory = errors.New("not a directory")

const partSuffix = ".part"

// Fetch downloads file into dir/file.Name. The content is streamed into a
// temporary file first and renamed into place once complete; the
// modification time is set to the file's publication date.
func (c *Client) Fetch(ctx context.Context, file *addon.File, fs afero.Fs, dir string) error {
	info, err := fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, ErrNotADirectory)
	}

	resp, err := c.makeRequest(ctx, "GET", file.URL, nil, nil, true)
	if err != nil {
		return fmt.Errorf("failed to start download for '%s' from %s: %w", file.Name, file.URL, err)
	}
	defer resp.Body.Close()

	target := filepath.Join(dir, file.Name)
	tmp := target + partSuffix
	if err := writeFile(fs, tmp, resp.Body); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to write downloaded content to '%s': %w", target, err)
	}
	if err := fs.Rename(tmp, target); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to move '%s' into place: %w", target, err)
	}
	if !file.Date.IsZero() {
		if err := fs.Chtimes(target, file.Date, file.Date); err != nil {
			c.log().Warnw("Failed to set modification time", zap.String("file", target), zap.Error(err))
		}
	}
	return nil
}

func writeFile(fs afero.Fs, path string, r io.Reader) error {
	out, err := fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

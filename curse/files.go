package curse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"curse-modpack/addon"
	"curse-modpack/pack"
)

type filesResponse struct {
	Files []apiFile `json:"files"`
}

type apiFile struct {
	ID             int             `json:"id"`
	FileNameOnDisk string          `json:"file_name_on_disk"`
	FileDate       proxyTime       `json:"file_date"`
	ReleaseType    string          `json:"release_type"`
	DownloadURL    string          `json:"download_url"`
	GameVersion    []string        `json:"game_version"`
	Dependencies   []apiDependency `json:"dependencies"`
}

type apiDependency struct {
	AddOnID int    `json:"add_on_id"`
	Type    string `json:"type"`
}

// proxyTime accepts ISO 8601 timestamps with or without a zone; zoneless
// values are UTC.
type proxyTime time.Time

func (t *proxyTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = proxyTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid file date %q", s)
}

func (f apiFile) toFile(mod addon.Mod) (*addon.File, error) {
	release, err := addon.ParseRelease(f.ReleaseType)
	if err != nil {
		return nil, err
	}
	var deps []int
	for _, d := range f.Dependencies {
		if strings.EqualFold(d.Type, "required") {
			deps = append(deps, d.AddOnID)
		}
	}
	return &addon.File{
		ID:           f.ID,
		Mod:          mod,
		Name:         f.FileNameOnDisk,
		Date:         time.Time(f.FileDate),
		Release:      release,
		URL:          f.DownloadURL,
		Dependencies: deps,
	}, nil
}

// Latest returns the newest file of mod that supports the game version and
// is at least minRelease, or nil when none qualifies.
func (c *Client) Latest(ctx context.Context, game addon.Game, mod addon.Mod, minRelease addon.Release) (*addon.File, error) {
	var resp filesResponse
	url := fmt.Sprintf("%s/addon/%d/files", c.BaseURL, mod.ID)
	if _, err := c.makeRequest(ctx, "GET", url, nil, &resp, false); err != nil {
		return nil, fmt.Errorf("failed to get files of %s: %w", mod.Name, err)
	}

	var latest *addon.File
	for _, raw := range resp.Files {
		if !slices.Contains(raw.GameVersion, game.Version) {
			continue
		}
		f, err := raw.toFile(mod)
		if err != nil {
			c.log().Warnw("Skipping unreadable file", "mod_id", mod.ID, "file_id", raw.ID, "error", err)
			continue
		}
		if !f.Release.AtLeast(minRelease) {
			continue
		}
		if latest == nil || f.Date.After(latest.Date) {
			latest = f
		}
	}
	return latest, nil
}

// LatestFileTree returns the latest file of mod followed by the latest files
// of everything it requires. The result is empty when mod has no acceptable
// file.
func (c *Client) LatestFileTree(ctx context.Context, game addon.Game, mod addon.Mod, minRelease addon.Release) ([]*addon.File, error) {
	root, err := c.Latest(ctx, game, mod, minRelease)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}

	pool := &lazyPool{ctx: ctx, client: c, game: game, minRelease: minRelease, files: make(map[int]*addon.File)}
	tree, err := pack.Resolve(root, pool)
	if err != nil {
		return nil, err
	}
	return tree.Files(), nil
}

// lazyPool fetches the latest file of a dependency on first use.
type lazyPool struct {
	ctx        context.Context
	client     *Client
	game       addon.Game
	minRelease addon.Release
	files      map[int]*addon.File
}

func (p *lazyPool) File(modID int) (*addon.File, error) {
	if f, ok := p.files[modID]; ok {
		return f, nil
	}
	if p.client.Mods == nil {
		return nil, fmt.Errorf("mod %d: no mod index: %w", modID, pack.ErrMissingDependency)
	}

	mod, err := p.client.Mods.WithID(modID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pack.ErrMissingDependency, err)
	}
	f, err := p.client.Latest(p.ctx, p.game, mod, p.minRelease)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("required %s: %w", mod.Name, pack.ErrNoFileFound)
	}
	p.files[modID] = f
	return f, nil
}

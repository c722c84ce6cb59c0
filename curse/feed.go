package curse

import (
	"compress/bzip2"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"curse-modpack/addon"
)

type feedDocument struct {
	Timestamp int64       `json:"timestamp"`
	Data      []feedEntry `json:"data"`
}

type feedEntry struct {
	ID      int    `json:"Id"`
	Name    string `json:"Name"`
	Summary string `json:"Summary"`
}

func (c *Client) feedURL(game addon.Game) string {
	return strings.ReplaceAll(c.FeedURL, "{id}", strconv.Itoa(game.ID))
}

// FeedTimestamp returns the timestamp of the current project feed.
func (c *Client) FeedTimestamp(ctx context.Context, game addon.Game) (int64, error) {
	resp, err := c.makeRequest(ctx, "GET", c.feedURL(game)+".txt", nil, nil, true)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed timestamp: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0, err
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid feed timestamp: %w", err)
	}
	return ts, nil
}

// Feed downloads the complete project feed of game.
func (c *Client) Feed(ctx context.Context, game addon.Game) ([]addon.Mod, error) {
	resp, err := c.makeRequest(ctx, "GET", c.feedURL(game), nil, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to download feed: %w", err)
	}
	defer resp.Body.Close()

	var doc feedDocument
	if err := json.NewDecoder(bzip2.NewReader(resp.Body)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	mods := make([]addon.Mod, 0, len(doc.Data))
	for _, e := range doc.Data {
		mods = append(mods, addon.Mod{ID: e.ID, Name: e.Name, Summary: e.Summary})
	}
	c.log().Infow("Feed downloaded", "game", game.Name, "mods", len(mods), "timestamp", doc.Timestamp)
	return mods, nil
}

package db

import (
	"testing"
	"time"

	"curse-modpack/addon"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveAndLatestVersion(t *testing.T) {
	conn := openTest(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "mods/Mantle-1.jar.disabled", []byte("v1"), 0o644))

	old := &addon.File{
		ID:           2446290,
		Mod:          addon.Mod{ID: 74924, Name: "Mantle"},
		Name:         "Mantle-1.jar",
		Date:         time.Date(2017, 7, 8, 11, 14, 52, 0, time.UTC),
		Release:      addon.Beta,
		URL:          "https://example.com/Mantle-1.jar",
		Dependencies: []int{1, 2},
	}
	archiver := Archiver{DB: conn, Dir: "archive"}
	require.NoError(t, archiver.Archive(fs, "mods/Mantle-1.jar.disabled", old))

	ok, _ := afero.Exists(fs, "mods/Mantle-1.jar.disabled")
	assert.False(t, ok)
	content, err := afero.ReadFile(fs, "archive/2446290-Mantle-1.jar")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))

	v, err := LatestVersion(conn, 74924)
	require.NoError(t, err)
	assert.True(t, old.Equal(v.File()), "got %+v", v.File())
	assert.Equal(t, "archive/2446290-Mantle-1.jar", v.ArchivePath)

	_, err = LatestVersion(conn, 1)
	assert.ErrorIs(t, err, ErrNoHistory)

	versions, err := Versions(conn, 74924)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

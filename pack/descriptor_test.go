package pack

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDescriptor = `game:
  id: 432
  name: Minecraft
  version: 1.12.2
files:
  path: mods
  mods:
    - id: 74072
      name: Tinkers Construct
      summary: Modify all the things, then do it again!
      file:
        id: 2446291
        name: TConstruct-1.12-2.7.2.15.jar
        date: 2017-07-08T11:16:05Z
        release: Release
        url: https://media.forgecdn.net/files/2446/291/TConstruct-1.12-2.7.2.15.jar
        dependencies: [74924]
  dependencies:
    - id: 74924
      name: Mantle
      summary: Shared code for Slime Knights mods
      file:
        id: 2446290
        name: Mantle-1.12-1.3.1.21.jar
        date: 2017-07-08T11:14:52Z
        release: release
        url: https://media.forgecdn.net/files/2446/290/Mantle-1.12-1.3.1.21.jar
        dependencies: []
`

func TestLoad(t *testing.T) {
	mp, err := Load(strings.NewReader(sampleDescriptor))
	require.NoError(t, err)

	assert.Equal(t, 432, mp.Game.ID)
	assert.Equal(t, "1.12.2", mp.Game.Version)
	assert.Equal(t, "mods", mp.Path)
	assert.Equal(t, []int{74072}, mp.Mods.Keys())
	assert.Equal(t, []int{74924}, mp.Dependencies.Keys())

	tc, _ := mp.Mods.Get(74072)
	assert.Equal(t, "Tinkers Construct", tc.Mod.Name)
	assert.Equal(t, []int{74924}, tc.Dependencies)
	assert.True(t, tc.Requires(74924))
}

func TestDumpRoundTrip(t *testing.T) {
	mp, err := Load(strings.NewReader(sampleDescriptor))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, mp.Dump(&buf))

	again, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, mp.Game, again.Game)
	assert.Equal(t, mp.Path, again.Path)
	for _, store := range []struct{ want, got *Store }{{mp.Mods, again.Mods}, {mp.Dependencies, again.Dependencies}} {
		require.Equal(t, store.want.Keys(), store.got.Keys())
		for _, f := range store.want.Files() {
			other, _ := store.got.Get(f.Mod.ID)
			assert.True(t, f.Equal(other), "file %s changed in round trip", f.Name)
		}
	}
}

func TestDumpEmptyPack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, memPack().Dump(&buf))

	again, err := Load(&buf)
	require.NoError(t, err)
	assert.Zero(t, again.Mods.Len())
	assert.Zero(t, again.Dependencies.Len())
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{name: "empty", input: "", field: "document"},
		{name: "not a mapping", input: "- a\n- b\n", field: "document"},
		{name: "unknown field", input: "game: {name: Minecraft}\nfiles: {path: mods}\nextra: 1\n", field: "document"},
		{name: "missing game name", input: "game: {version: 1.12.2}\nfiles: {path: mods}\n", field: "game.name"},
		{name: "missing path", input: "game: {name: Minecraft}\nfiles: {mods: []}\n", field: "files.path"},
		{
			name:  "bad release",
			input: strings.Replace(sampleDescriptor, "release: Release", "release: Gold", 1),
			field: "files.mods[0].file.release",
		},
		{
			name:  "path in file name",
			input: strings.Replace(sampleDescriptor, "name: TConstruct-1.12-2.7.2.15.jar", "name: ../evil.jar", 1),
			field: "files.mods[0].file.name",
		},
		{
			name:  "duplicate mod",
			input: strings.Replace(sampleDescriptor, "id: 74924\n      name: Mantle", "id: 74072\n      name: Mantle", 1),
			field: "files.dependencies[0].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrInvalidStream)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, len(verr.Problems))
			for i, p := range verr.Problems {
				fields[i] = p.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

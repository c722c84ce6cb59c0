package db

import (
	"path/filepath"
	"testing"

	"curse-modpack/addon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTest(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "mods.db"))
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func testIndex(t *testing.T) Index {
	ix := Index{DB: openTest(t), GameID: 432}
	require.NoError(t, ix.ReplaceMods([]addon.Mod{
		{ID: 74072, Name: "Tinkers Construct", Summary: "Modify all the things, then do it again!"},
		{ID: 74924, Name: "Mantle", Summary: "Shared code for Slime Knights mods"},
		{ID: 238222, Name: "Just Enough Items (JEI)", Summary: "View Items and Recipes"},
		{ID: 59751, Name: "Tinkers Tool Leveling", Summary: "Tools gain levels"},
	}, 1500000000))
	return ix
}

func TestSearch(t *testing.T) {
	ix := testIndex(t)

	tests := []struct {
		term string
		want []string
	}{
		{term: "tinkers", want: []string{"Tinkers Construct", "Tinkers Tool Leveling"}},
		{term: "slime", want: []string{"Mantle"}},
		{term: "nothing-like-this", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			mods, err := ix.Search(tt.term)
			require.NoError(t, err)
			names := make([]string, 0, len(mods))
			for _, m := range mods {
				names = append(names, m.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFind(t *testing.T) {
	ix := testIndex(t)

	m, err := ix.Find("mantle")
	require.NoError(t, err)
	assert.Equal(t, 74924, m.ID)

	m, err = ix.Find("JEI")
	require.NoError(t, err)
	assert.Equal(t, 238222, m.ID)

	_, err = ix.Find("Tinkers")
	assert.ErrorIs(t, err, ErrAmbiguousMod)

	_, err = ix.Find("Thaumcraft")
	assert.ErrorIs(t, err, ErrModNotFound)
}

func TestWithID(t *testing.T) {
	ix := testIndex(t)

	m, err := ix.WithID(74072)
	require.NoError(t, err)
	assert.Equal(t, "Tinkers Construct", m.Name)

	_, err = ix.WithID(1)
	assert.ErrorIs(t, err, ErrModNotFound)

	other := Index{DB: ix.DB, GameID: 1}
	_, err = other.WithID(74072)
	assert.ErrorIs(t, err, ErrModNotFound)
}

func TestReplaceModsAndTimestamp(t *testing.T) {
	ix := Index{DB: openTest(t), GameID: 432}

	_, ok, err := ix.FeedTimestamp()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ix.ReplaceMods([]addon.Mod{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, 10))
	require.NoError(t, ix.ReplaceMods([]addon.Mod{{ID: 2, Name: "B2"}}, 20))

	ts, ok, err := ix.FeedTimestamp()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(20), ts)

	n, err := ix.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	m, err := ix.WithID(2)
	require.NoError(t, err)
	assert.Equal(t, "B2", m.Name)
}

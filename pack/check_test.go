package pack

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	mp := memPack()
	present := testFile(1, "present", 0)
	gone := testFile(2, "gone", 0)
	install(mp, mp.Mods, present)
	mp.Dependencies.Set(gone)
	require.NoError(t, afero.WriteFile(mp.Fs, "mods/stray.jar", nil, 0o644))
	require.NoError(t, afero.WriteFile(mp.Fs, "mods/old-1.jar.disabled", nil, 0o644))
	require.NoError(t, afero.WriteFile(mp.Fs, "mods/readme.txt", nil, 0o644))

	report, err := mp.Check()
	require.NoError(t, err)
	assert.False(t, report.Clean())
	require.Len(t, report.Missing, 1)
	assert.Equal(t, gone, report.Missing[0])
	assert.Equal(t, []string{"stray.jar"}, report.Untracked)
	assert.Equal(t, []string{"old-1.jar.disabled"}, report.Leftovers)

	restored, err := mp.Recover(report)
	require.NoError(t, err)
	assert.Equal(t, []string{"old-1.jar"}, restored)
	ok, _ := afero.Exists(mp.Fs, "mods/old-1.jar")
	assert.True(t, ok)
}

func TestCheckClean(t *testing.T) {
	mp := memPack()
	install(mp, mp.Mods, testFile(1, "a", 0))

	report, err := mp.Check()
	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestRecoverKeepsExistingFile(t *testing.T) {
	mp := memPack()
	require.NoError(t, afero.WriteFile(mp.Fs, "mods/a.jar", []byte("current"), 0o644))
	require.NoError(t, afero.WriteFile(mp.Fs, "mods/a.jar.disabled", []byte("old"), 0o644))

	restored, err := mp.Recover(&Report{Leftovers: []string{"a.jar.disabled"}})
	require.NoError(t, err)
	assert.Empty(t, restored)

	content, _ := afero.ReadFile(mp.Fs, "mods/a.jar")
	assert.Equal(t, "current", string(content))
}

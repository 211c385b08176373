package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/season"
)

func testFlags(t *testing.T) globalFlags {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SHIMTEO_DB_PATH", filepath.Join(dir, "shimteo.sqlite"))
	t.Setenv("SHIMTEO_LOG_PATH", filepath.Join(dir, "shimteo.log"))
	t.Setenv("SHIMTEO_LANG", "en")
	return globalFlags{}
}

func TestBootstrapPersistsPreferences(t *testing.T) {
	flags := testFlags(t)

	e, err := bootstrap(flags)
	require.NoError(t, err)
	assert.Equal(t, "en", e.prefs.Language())
	e.prefs.SetShowColdShelters(true)
	e.close()

	e, err = bootstrap(flags)
	require.NoError(t, err)
	defer e.close()
	assert.Equal(t, season.Cold, e.prefs.Season())
}

func TestPrefsResetRequiresConfirmation(t *testing.T) {
	flags := testFlags(t)

	cmd := rootCmd()
	cmd.SetArgs([]string{"prefs", "reset"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())

	e, err := bootstrap(flags)
	require.NoError(t, err)
	e.prefs.SetShowSeniorFacilities(false)
	e.close()

	cmd = rootCmd()
	cmd.SetArgs([]string{"prefs", "reset", "--yes"})
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	e, err = bootstrap(flags)
	require.NoError(t, err)
	defer e.close()
	assert.True(t, e.prefs.Snapshot().ShowSeniorFacilities)
}

func TestPrintPrefs(t *testing.T) {
	color.NoColor = true
	store := prefs.New(prefs.WithInitialLanguage("en"))
	_, err := store.AddRecentSearch(prefs.RecentSearchItem{Kind: prefs.KindKeyword, Label: "library"}, season.Heat)
	require.NoError(t, err)

	var buf bytes.Buffer
	printPrefs(&buf, store.Snapshot())

	out := buf.String()
	assert.Contains(t, out, "language")
	assert.Contains(t, out, "en (English)")
	assert.Contains(t, out, "Recent searches (HEAT)")
	assert.Contains(t, out, "library")
	assert.Contains(t, out, "none")
}

func TestPrefsResetForgetsStoredBlob(t *testing.T) {
	flags := testFlags(t)

	e, err := bootstrap(flags)
	require.NoError(t, err)
	e.prefs.SetShowColdShelters(true)
	e.close()

	cmd := rootCmd()
	cmd.SetArgs([]string{"prefs", "reset", "--yes"})
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	t.Setenv("SHIMTEO_LANG", "ja")
	e, err = bootstrap(flags)
	require.NoError(t, err)
	defer e.close()

	entry, err := e.db.Get(prefs.StorageKey)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, "ja", e.prefs.Language(), "language is negotiated again after a reset")
	assert.Equal(t, season.Heat, e.prefs.Season())
}

func TestPrintStorageListsKeys(t *testing.T) {
	color.NoColor = true
	flags := testFlags(t)

	e, err := bootstrap(flags)
	require.NoError(t, err)
	defer e.close()

	var buf bytes.Buffer
	require.NoError(t, printStorage(&buf, e.db))
	assert.Contains(t, buf.String(), "nothing stored yet")

	e.prefs.SetAutoLocateOnLaunch(false)
	buf.Reset()
	require.NoError(t, printStorage(&buf, e.db))
	assert.Contains(t, buf.String(), prefs.StorageKey)
	assert.Contains(t, buf.String(), "bytes, updated")
}

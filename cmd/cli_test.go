package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestCatalogListShowsDefaultJournals(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "journals: 6")
	assert.Contains(t, stdout, "Nature (1)")
	assert.Contains(t, stdout, "The Lancet (4)")
}

func TestCatalogInitRefusesToOverwrite(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "catalog", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Catalog written to")
	assert.FileExists(t, filepath.Join(home, ".academix", "catalog.toml"))

	_, _, err = executeCLI(t, home, "catalog", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCLI(t, home, "catalog", "init", "--force")
	require.NoError(t, err)
}

func TestSearchUsesLocalCatalog(t *testing.T) {
	stdout, stderr, err := executeCLI(t, t.TempDir(), "search", "nat")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Results for "nat"`)
	assert.Contains(t, stdout, "Nature (1)")
	assert.Contains(t, stderr, `for "nat" (request #1)`)
}

func TestSearchJSONOutput(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "search", "medicine", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var matches []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &matches))
	require.Len(t, matches, 2)
	// name matches rank ahead of category matches
	assert.Equal(t, "New England Journal of Medicine", matches[0].Label)
	assert.Equal(t, "The Lancet", matches[1].Label)
}

func TestSearchUsesRemoteEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plos", r.URL.Query().Get("q"))
		_, _ = fmt.Fprint(w, `{"results":[{"id":"42","label":"PLOS ONE","metadata":{"category":"Multidisciplinary"}}]}`)
	}))
	defer server.Close()

	t.Setenv("AX_SEARCH_ENDPOINT", server.URL)

	stdout, _, err := executeCLI(t, t.TempDir(), "search", "plos")
	require.NoError(t, err)
	assert.Contains(t, stdout, "PLOS ONE (42)")
}

func TestSearchReturnsEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprint(w, `{"error":"upstream down"}`)
	}))
	defer server.Close()

	t.Setenv("AX_SEARCH_ENDPOINT", server.URL)

	_, _, err := executeCLI(t, t.TempDir(), "search", "plos", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "search", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search query is empty")
}

func TestWatchlistAddListRemove(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "watchlist", "add", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Nature added to watchlist")

	stdout, _, err = executeCLI(t, home, "watchlist", "add", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Nature is already in watchlist")

	stdout, _, err = executeCLI(t, home, "watchlist", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "journals: 1")
	assert.Contains(t, stdout, "Nature (1)")

	stdout, _, err = executeCLI(t, home, "search", "nat")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[saved]")

	stdout, _, err = executeCLI(t, home, "watchlist", "remove", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Nature removed from watchlist")

	_, _, err = executeCLI(t, home, "watchlist", "remove", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watchlist item not found")
}

func TestWatchlistAddUnknownJournal(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "watchlist", "add", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal not found")
}

func TestWatchlistListJSONOutput(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "watchlist", "add", "3")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "watchlist", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"name": "Cell"`)
}

func TestWatchlistIsScopedBySessionUser(t *testing.T) {
	home := t.TempDir()

	t.Setenv("AX_SESSION_USER", "ada")
	_, _, err := executeCLI(t, home, "watchlist", "add", "2")
	require.NoError(t, err)

	t.Setenv("AX_SESSION_USER", "")
	stdout, _, err := executeCLI(t, home, "watchlist", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Your watchlist is empty.")

	t.Setenv("AX_SESSION_USER", "ada")
	stdout, _, err = executeCLI(t, home, "watchlist", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Science (2)")
}

func TestWatchlistClear(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "watchlist", "add", "1")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "watchlist", "add", "2")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "watchlist", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Watchlist cleared")

	stdout, _, err = executeCLI(t, home, "watchlist", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "journals: 0")
}

func TestFileBackendWritesJSONSnapshot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AX_STORAGE_BACKEND", "file")

	_, _, err := executeCLI(t, home, "watchlist", "add", "1")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(home, ".academix", "snapshots", "guest", "watchlist.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"Nature"`)
	assert.NoFileExists(t, filepath.Join(home, ".academix", "state.db"))
}

func TestSQLiteBackendPersistsAcrossRuns(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AX_STORAGE_BACKEND", "sqlite")

	_, _, err := executeCLI(t, home, "watchlist", "add", "4")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, ".academix", "state.db"))

	stdout, _, err := executeCLI(t, home, "watchlist", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "The Lancet (4)")
}

func TestCorruptSnapshotStartsEmptyWithWarning(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AX_STORAGE_BACKEND", "file")

	path := filepath.Join(home, ".academix", "snapshots", "guest", "watchlist.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	stdout, stderr, err := executeCLI(t, home, "watchlist", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Your watchlist is empty.")
	assert.Contains(t, stderr, "warning: starting with an empty watchlist")
}

func TestInvalidConfigIsReported(t *testing.T) {
	t.Setenv("AX_STORAGE_BACKEND", "s3")

	_, _, err := executeCLI(t, t.TempDir(), "watchlist", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported backend "s3"`)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".academix")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`[ui]
theme = "light"

[storage]
backend = "file"
`), 0o600))

	_, _, err := executeCLI(t, home, "watchlist", "add", "5")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(configDir, "snapshots", "guest", "watchlist.json"))
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

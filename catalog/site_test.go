package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

func scannedUsers(t *testing.T) *Catalog {
	t.Helper()
	cat := New()
	require.NoError(t, cat.Scan(context.Background(), usersCatalog(t)))
	require.NoError(t, cat.Build(context.Background()))
	return cat
}

func TestWriteSiteData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSiteData(&buf, scannedUsers(t)))

	snaps.MatchSnapshot(t, buf.String())
}

func TestSiteShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSiteData(&buf, scannedUsers(t)))

	var site SiteData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &site))
	require.Len(t, site.APIs, 1)

	api := site.APIs[0]
	assert.Equal(t, "Users", api.Name)
	require.Len(t, api.Versions, 2)
	assert.Equal(t, "1.0.0", api.Versions[0].Version)
	assert.Equal(t, "2.0.0", api.Versions[1].Version)
	assert.Equal(t, "1.0.0", api.Versions[0].Spec["info"].(map[string]any)["version"])

	assert.Equal(t, []string{"2.0.0"}, api.Versions[0].Diffs.Versions())
	newest := api.Versions[1].Diffs["1.0.0"]
	require.Len(t, newest, 2)
	assert.Equal(t, "paths", string(newest[0].Section))
	assert.Equal(t, "post", newest[0].Operation)
	assert.Equal(t, "components", string(newest[1].Section))
	assert.Equal(t, "User.email", newest[1].FieldPath)
}

func TestSiteEmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSiteData(&buf, New()))
	assert.JSONEq(t, `{"apis":[]}`, buf.String())
}

func TestWriteSite(t *testing.T) {
	cat := scannedUsers(t)
	out := t.TempDir()

	path, err := WriteSite(cat, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "data", "api-data.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var site SiteData
	require.NoError(t, json.Unmarshal(data, &site))
	assert.Len(t, site.APIs, 1)
}

func TestWriteSiteRefusesSymlink(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "data"), 0o755))
	target := filepath.Join(t.TempDir(), "elsewhere.json")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	require.NoError(t, os.Symlink(target, filepath.Join(out, "data", "api-data.json")))

	_, err := WriteSite(New(), out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}

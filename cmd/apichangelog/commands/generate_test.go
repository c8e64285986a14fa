package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apichangelog/catalog"
	"github.com/erraggy/apichangelog/internal/testutil"
)

func usersCatalogDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteVersion(t, root, "Users", "1.0.0", testutil.UsersV1YAML, "2024-01-02T03:04:05Z")
	testutil.WriteVersion(t, root, "Users", "2.0.0", testutil.UsersV2YAML, "")
	return root
}

func TestGenerateCmd(t *testing.T) {
	input := usersCatalogDir(t)
	output := filepath.Join(t.TempDir(), "site")

	out, _, err := execute(t, "generate", "-i", input, "-o", output, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 version(s) of 1 API(s) to ")

	data, err := os.ReadFile(filepath.Join(output, catalog.SiteDataPath))
	require.NoError(t, err)
	var site catalog.SiteData
	require.NoError(t, json.Unmarshal(data, &site))
	require.Len(t, site.APIs, 1)
	assert.Equal(t, "Users", site.APIs[0].Name)
	require.Len(t, site.APIs[0].Versions, 2)

	v2 := site.APIs[0].Versions[1]
	assert.Equal(t, "2.0.0", v2.Version)
	assert.Len(t, v2.Diffs["1.0.0"], 2)
}

func TestGenerateCmd_NominalRefs(t *testing.T) {
	input := usersCatalogDir(t)
	output := t.TempDir()

	_, _, err := execute(t, "generate", "--input", input, "--output", output, "--nominal-refs", "--strict")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(output, catalog.SiteDataPath))
}

func TestGenerateCmd_Errors(t *testing.T) {
	input := usersCatalogDir(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing input", []string{"generate", "-o", t.TempDir()}, "input directory is required"},
		{"negative workers", []string{"generate", "-i", input, "--workers", "-1"}, "workers must not be negative"},
		{"input does not exist", []string{"generate", "-i", filepath.Join(input, "nope"), "-o", t.TempDir()}, "catalog: read"},
		{"positional args", []string{"generate", input}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apichangelog/internal/testutil"
)

// usersRepo creates a repository with v1 and v2 of the users document in
// two commits.
func usersRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for i, doc := range []string{testutil.UsersV1YAML, testutil.UsersV2YAML} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.yaml"), []byte(doc), 0o600))
		_, err := wt.Add("openapi.yaml")
		require.NoError(t, err)
		_, err = wt.Commit("release", &git.CommitOptions{
			Author: &object.Signature{
				Name:  "Dev",
				Email: "dev@example.com",
				When:  time.Date(2024, time.Month(i+1), 1, 12, 0, 0, 0, time.UTC),
			},
		})
		require.NoError(t, err)
	}
	return dir
}

func TestCollectCmd(t *testing.T) {
	repo := usersRepo(t)
	output := t.TempDir()

	out, _, err := execute(t, "collect", "--repo", repo, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Collected 2 version(s) from 2 commit(s)")
	assert.Contains(t, out, "Test_API  1.0.0    2024-01-01  openapi.yaml")
	assert.FileExists(t, filepath.Join(output, "Test_API", "2.0.0", "openapi.yaml"))
	assert.FileExists(t, filepath.Join(output, "Test_API", "1.0.0", "info.json"))
}

func TestCollectCmd_MaxVersions(t *testing.T) {
	repo := usersRepo(t)
	output := t.TempDir()

	out, _, err := execute(t, "collect", "--repo", repo, "-o", output, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Collected 1 version(s)")
	assert.DirExists(t, filepath.Join(output, "Test_API", "2.0.0"))
	assert.NoDirExists(t, filepath.Join(output, "Test_API", "1.0.0"))
}

func TestCollectCmd_FeedsGenerate(t *testing.T) {
	repo := usersRepo(t)
	collected := t.TempDir()
	site := t.TempDir()

	_, _, err := execute(t, "collect", "--repo", repo, "-o", collected)
	require.NoError(t, err)
	out, _, err := execute(t, "generate", "-i", collected, "-o", site)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 version(s) of 1 API(s)")
}

func TestCollectCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no source", []string{"collect"}, "exactly one of --repo-url or --repo"},
		{"both sources", []string{"collect", "-u", "https://example.com/r.git", "--repo", "."}, "exactly one of --repo-url or --repo"},
		{"zero versions", []string{"collect", "--repo", ".", "-n", "0"}, "max-versions must be positive"},
		{"not a repository", []string{"collect", "--repo", t.TempDir(), "-o", t.TempDir()}, "history: open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

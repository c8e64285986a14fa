package mcpserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apichangelog/internal/testutil"
)

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	path := testutil.WriteVersion(t, t.TempDir(), "Users", "1.0.0", testutil.UsersV1YAML, "")

	result, err := specInput{File: path}.resolve(false)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result.Spec.Info.Version)
	assert.Contains(t, result.Spec.Schemas, "User")
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	result, err := specInput{Content: testutil.UsersV2YAML}.resolve(false)
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", result.Version)
	assert.Equal(t, "2.0.0", result.Spec.Info.Version)
}

func TestSpecInput_ResolveStrict(t *testing.T) {
	specCache.reset()
	result, err := specInput{Content: testutil.UsersV1YAML}.resolve(true)
	require.NoError(t, err)
	assert.Contains(t, result.Spec.Schemas, "User")
}

func TestSpecInput_ResolveSourceCount(t *testing.T) {
	tests := []struct {
		name  string
		input specInput
	}{
		{"none", specInput{}},
		{"file and content", specInput{File: "a.yaml", Content: "openapi: 3.0.0"}},
		{"all three", specInput{File: "a.yaml", URL: "https://example.com/a.yaml", Content: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.resolve(false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exactly one of file, url, or content")
		})
	}
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	_, err := specInput{File: filepath.Join(t.TempDir(), "missing.yaml")}.resolve(false)
	assert.Error(t, err)
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	_, err := specInput{Content: strings.Repeat("x", 17)}.resolve(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	path := testutil.WriteVersion(t, t.TempDir(), "Users", "1.0.0", testutil.UsersV1YAML, "")
	input := specInput{File: path}

	result1, err := input.resolve(false)
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	result2, err := input.resolve(false)
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestSpecCache_StrictIsSeparateEntry(t *testing.T) {
	specCache.reset()
	input := specInput{Content: testutil.UsersV1YAML}

	loose, err := input.resolve(false)
	require.NoError(t, err)
	strict, err := input.resolve(true)
	require.NoError(t, err)
	assert.NotSame(t, loose, strict)
	assert.Equal(t, 2, specCache.size())
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testutil.UsersV1YAML), 0o644))

	input := specInput{File: path}
	result1, err := input.resolve(false)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result1.Spec.Info.Version)

	require.NoError(t, os.WriteFile(path, []byte(testutil.UsersV2YAML), 0o644))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve(false)
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Equal(t, "2.0.0", result2.Spec.Info.Version)
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.reset()

	var firstKey string
	for i := range cfg.CacheMaxSize + 1 {
		content := `openapi: "3.0.0"
info:
  title: "Spec ` + string(rune('A'+i)) + `"
  version: "1.0"
paths: {}
`
		input := specInput{Content: content}
		if i == 0 {
			firstKey = makeCacheKey(input, false)
		}
		_, err := input.resolve(false)
		require.NoError(t, err)
	}

	assert.Equal(t, cfg.CacheMaxSize, specCache.size())
	_, ok := specCache.contents.Get(firstKey)
	assert.False(t, ok, "expected oldest entry to be evicted")
}

func TestMakeCacheKey(t *testing.T) {
	path := testutil.WriteVersion(t, t.TempDir(), "Users", "1.0.0", testutil.UsersV1YAML, "")

	assert.True(t, strings.HasPrefix(makeCacheKey(specInput{File: path}, false), "file:loose:"))
	assert.True(t, strings.HasPrefix(makeCacheKey(specInput{Content: "x"}, true), "content:strict:"))
	assert.Equal(t, "url:loose:https://example.com/a.yaml", makeCacheKey(specInput{URL: "https://example.com/a.yaml"}, false))
	assert.Empty(t, makeCacheKey(specInput{File: filepath.Join(t.TempDir(), "missing.yaml")}, false))
	assert.Empty(t, makeCacheKey(specInput{}, false))
}

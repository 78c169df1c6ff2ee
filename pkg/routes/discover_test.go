package routes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (slash separated paths) under a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		rel    string
		want   Key
		wantOK bool
	}{
		{"get.js", Key{"GET", "/"}, true},
		{"hello/get.js", Key{"GET", "/hello"}, true},
		{"api/v1/users/post.js", Key{"POST", "/api/v1/users"}, true},
		{"hello/Delete.js", Key{"DELETE", "/hello"}, true},
		{"hello/get.handler.js", Key{"GET", "/hello"}, true},
		{"Mixed/Case/put.js", Key{"PUT", "/Mixed/Case"}, true},
		{".js", Key{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, ok := KeyFor(tt.rel)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyFor_NFC(t *testing.T) {
	// "café" spelled with a combining accent (NFD) maps to the composed form.
	got, ok := KeyFor("cafe\u0301/get.js")
	require.True(t, ok)
	assert.Equal(t, "/caf\u00e9", got.Path)
}

func TestDiscover_OrderAndFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"zeta/get.js":         "",
		"alpha/post.js":       "",
		"alpha/get.js":        "",
		"get.js":              "",
		"README.md":           "",
		".hidden/get.js":      "",
		"alpha/.draft.get.js": "",
		"beta/get.TS":         "",
	})

	files, err := Discover(root, []string{".js"})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
	}
	assert.Equal(t, []string{"alpha/get.js", "alpha/post.js", "get.js", "zeta/get.js"}, rels)
	assert.Equal(t, Key{"POST", "/alpha"}, files[1].Key)
	assert.Equal(t, filepath.Join(root, "alpha", "post.js"), files[1].Abs)
}

func TestDiscover_ExtensionCaseInsensitive(t *testing.T) {
	root := writeTree(t, map[string]string{"beta/get.TS": ""})
	files, err := Discover(root, []string{".ts"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, Key{"GET", "/beta"}, files[0].Key)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), []string{".js"})
	var le *LoadError
	require.ErrorAs(t, err, &le)
}

func TestDiscover_RootIsFile(t *testing.T) {
	root := writeTree(t, map[string]string{"get.js": ""})
	_, err := Discover(filepath.Join(root, "get.js"), []string{".js"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

package routes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/script"
	"github.com/joeydtaylor/steeze-fn/pkg/script/scripttest"
)

func constant(body string) scripttest.Func {
	return func(scripttest.Request) (string, error) { return body, nil }
}

func newTestLoader(root string) *Loader {
	return &Loader{Root: root, Extensions: []string{".js"}, Export: "handler", Log: zap.NewNop()}
}

func call(t *testing.T, rt script.Runtime, tbl *Table, method, path string) string {
	t.Helper()
	r, ok := tbl.Lookup(method, path)
	require.True(t, ok, "route %s %s", method, path)
	out, err := rt.Call(r.Handler, []byte(`{"method":"`+method+`","path":"`+path+`","query":{},"body":""}`))
	require.NoError(t, err)
	return out
}

func TestLoader_RegistersByConvention(t *testing.T) {
	root := writeTree(t, map[string]string{
		"get.js":              "root",
		"hello/get.js":        "hello-get",
		"hello/post.js":       "hello-post",
		"api/v1/items/put.js": "items-put",
	})
	rt := scripttest.New().
		Handle("root", constant("R")).
		Handle("hello-get", constant("HG")).
		Handle("hello-post", constant("HP")).
		Handle("items-put", constant("IP"))

	tbl, err := newTestLoader(root).Load(rt)
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	assert.Equal(t, "R", call(t, rt, tbl, "GET", "/"))
	assert.Equal(t, "HG", call(t, rt, tbl, "GET", "/hello"))
	assert.Equal(t, "HP", call(t, rt, tbl, "POST", "/hello"))
	assert.Equal(t, "IP", call(t, rt, tbl, "PUT", "/api/v1/items"))

	assert.Equal(t, []string{"PUT:/api/v1/items", "GET:/", "GET:/hello", "POST:/hello"}, rt.Compiled())
	assert.Zero(t, rt.Overlaps())
}

func TestLoader_HelperFilesAreSkipped(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/get.js": "exports-a",
		"b/get.js": "helper only",
	})
	rt := scripttest.New().Handle("exports-a", constant("A"))

	tbl, err := newTestLoader(root).Load(rt)
	require.NoError(t, err)

	// b is compiled right after a; a's export was already captured and must not
	// be registered a second time under b.
	assert.Equal(t, []Key{{"GET", "/a"}}, tbl.Keys())
	_, ok := tbl.Lookup("GET", "/b")
	assert.False(t, ok)
}

func TestLoader_DuplicateNamesBothFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"hello/get.js":    "one",
		"hello/get.v2.js": "two",
	})
	rt := scripttest.New().Handle("one", constant("1")).Handle("two", constant("2"))

	tbl, err := newTestLoader(root).Load(rt)
	require.Error(t, err)
	assert.Nil(t, tbl)

	var dup *DuplicateRouteError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, Key{"GET", "/hello"}, dup.Key)
	assert.Equal(t, "hello/get.js", dup.First)
	assert.Equal(t, "hello/get.v2.js", dup.Second)
	assert.Contains(t, err.Error(), "hello/get.js")
	assert.Contains(t, err.Error(), "hello/get.v2.js")

	// Nothing captured by the failed load stays alive in the runtime.
	assert.ElementsMatch(t, []string{"GET:/hello", "GET:/hello"}, rt.Released())
}

func TestLoader_CompileErrorNamesFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"ok/get.js":     "fine",
		"broken/get.js": "syntax",
	})
	rt := scripttest.New().
		Handle("fine", constant("ok")).
		Fail("syntax", errors.New("Unexpected token"))

	_, err := newTestLoader(root).Load(rt)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "broken/get.js", le.File)

	var se *script.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "GET:/broken", se.Label)
}

func TestLoader_Prelude(t *testing.T) {
	root := writeTree(t, map[string]string{"get.js": "root"})
	prelude := filepath.Join(t.TempDir(), "prelude.js")
	require.NoError(t, os.WriteFile(prelude, []byte("var shared = 1;"), 0o644))

	rt := scripttest.New().Handle("root", constant("R"))
	l := newTestLoader(root)
	l.Prelude = prelude

	_, err := l.Load(rt)
	require.NoError(t, err)
	assert.Equal(t, []string{preludeLabel, "GET:/"}, rt.Compiled())
}

func TestLoader_PreludeExportIsNotInherited(t *testing.T) {
	// lib/util.js is the first file compiled after the prelude.
	root := writeTree(t, map[string]string{
		"lib/util.js": "helper only",
		"z/get.js":    "root",
	})
	prelude := filepath.Join(t.TempDir(), "prelude.js")
	require.NoError(t, os.WriteFile(prelude, []byte("prelude defines handler"), 0o644))

	rt := scripttest.New().
		Handle("root", constant("R")).
		Handle("prelude defines handler", constant("stale"))
	l := newTestLoader(root)
	l.Prelude = prelude

	tbl, err := l.Load(rt)
	require.NoError(t, err)
	assert.Equal(t, []Key{{"GET", "/z"}}, tbl.Keys())
	_, ok := tbl.Lookup("UTIL", "/lib")
	assert.False(t, ok)
}

func TestLoader_NilLog(t *testing.T) {
	root := writeTree(t, map[string]string{"get.js": "root"})
	l := &Loader{Root: root}

	tbl, err := l.Load(scripttest.New().Handle("root", constant("R")))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestLoader_MissingPrelude(t *testing.T) {
	root := writeTree(t, map[string]string{"get.js": "root"})
	l := newTestLoader(root)
	l.Prelude = filepath.Join(root, "nope.js")

	_, err := l.Load(scripttest.New())
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, l.Prelude, le.File)
}

func TestLoader_EmptyRoot(t *testing.T) {
	tbl, err := newTestLoader(t.TempDir()).Load(scripttest.New())
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

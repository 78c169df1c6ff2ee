package routes

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// File is a discovered candidate handler file.
type File struct {
	Rel string // slash separated, relative to the root
	Abs string
	Key Key
}

// Discover lists candidate files under root in lexicographic order of their
// relative path. Hidden files and directories are skipped.
func Discover(root string, exts []string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &LoadError{File: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{File: root, Err: errors.New("not a directory")}
	}

	var files []File
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &LoadError{File: p, Err: err}
		}
		name := d.Name()
		if p != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !hasExt(name, exts) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return &LoadError{File: p, Err: err}
		}
		rel = filepath.ToSlash(rel)
		key, ok := KeyFor(rel)
		if !ok {
			return nil
		}
		files = append(files, File{Rel: rel, Abs: p, Key: key})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

// KeyFor derives the route key from a slash separated path relative to the
// routes root: the directories form the URL path and the file stem (up to the
// first dot) is the method.
func KeyFor(rel string) (Key, bool) {
	dir, file := path.Split(rel)
	stem, _, _ := strings.Cut(file, ".")
	if stem == "" {
		return Key{}, false
	}
	dir = strings.Trim(dir, "/")
	urlPath := "/"
	if dir != "" {
		urlPath = "/" + norm.NFC.String(dir)
	}
	return NewKey(stem, urlPath), true
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

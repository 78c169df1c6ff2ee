package routes

import (
	"os"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
	"github.com/joeydtaylor/steeze-fn/pkg/script"
)

const preludeLabel = "<prelude>"

// Loader compiles a routes directory into a runtime and captures each file's
// export. It must run on the goroutine that owns the runtime.
type Loader struct {
	Root       string
	Extensions []string
	Export     string
	Prelude    string
	Log        *zap.Logger
}

// NewLoader builds a Loader from the manifest's routes section.
func NewLoader(cfg manifest.Routes, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		Root:       cfg.Dir,
		Extensions: cfg.Extensions,
		Export:     cfg.Export,
		Prelude:    cfg.Prelude,
		Log:        log,
	}
}

// Load builds a fresh table. Any error is fatal for this load cycle and no
// partial table is returned; handlers captured before the error are released.
func (l *Loader) Load(rt script.Runtime) (_ *Table, err error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	exts := l.Extensions
	if len(exts) == 0 {
		exts = []string{".js"}
	}
	export := l.Export
	if export == "" {
		export = manifest.DefaultExport
	}

	files, err := Discover(l.Root, exts)
	if err != nil {
		return nil, err
	}

	if l.Prelude != "" {
		src, err := os.ReadFile(l.Prelude)
		if err != nil {
			return nil, &LoadError{File: l.Prelude, Err: err}
		}
		if err := rt.Compile(preludeLabel, string(src)); err != nil {
			return nil, &LoadError{File: l.Prelude, Err: err}
		}
	}

	t := newTable()
	defer func() {
		if err != nil {
			t.Release(rt)
		}
	}()
	for _, f := range files {
		src, err := os.ReadFile(f.Abs)
		if err != nil {
			return nil, &LoadError{File: f.Rel, Err: err}
		}
		// The prelude or a handler may have assigned the export since the last
		// capture; a file that defines none must not pick that up.
		if err := rt.Unset(export); err != nil {
			return nil, &LoadError{File: f.Rel, Err: err}
		}
		if err := rt.Compile(f.Key.Label(), string(src)); err != nil {
			return nil, &LoadError{File: f.Rel, Err: err}
		}
		// Capture before the next file runs; later top-level code shares this scope.
		h, ok := rt.Export(export)
		if !ok {
			log.Debug("route file has no export, treating as helper",
				zap.String("file", f.Rel),
				zap.String("export", export),
			)
			continue
		}
		if err := t.insert(Route{Key: f.Key, Handler: h, File: f.Rel}); err != nil {
			rt.Release(h)
			return nil, err
		}
	}

	keys := t.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	log.Info("routes loaded",
		zap.String("root", l.Root),
		zap.Int("files", len(files)),
		zap.Int("routes", t.Len()),
		zap.Strings("keys", names),
	)
	return t, nil
}

package routes

import "strings"

// Key identifies a route. Method is upper-case; Path is matched exactly.
type Key struct {
	Method string
	Path   string
}

// NewKey normalizes the method case. Path is kept verbatim.
func NewKey(method, path string) Key {
	return Key{Method: strings.ToUpper(method), Path: path}
}

// Label is the diagnostic name used when compiling the route's file.
func (k Key) Label() string { return k.Method + ":" + k.Path }

func (k Key) String() string { return k.Method + " " + k.Path }

func (k Key) less(o Key) bool {
	if k.Path != o.Path {
		return k.Path < o.Path
	}
	return k.Method < o.Method
}

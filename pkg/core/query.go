package core

import "strings"

// ParseQuery splits a raw query string on '&', then each pair on its first
// '='. Pairs without '=' are dropped and the first occurrence of a key wins.
// Keys and values are passed through without percent-decoding.
func ParseQuery(raw string) map[string]string {
	out := map[string]string{}
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if _, seen := out[k]; seen {
			continue
		}
		out[k] = v
	}
	return out
}

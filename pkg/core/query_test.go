package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"name=ada", map[string]string{"name": "ada"}},
		{"a=1&b=2", map[string]string{"a": "1", "b": "2"}},
		{"a=1&a=2", map[string]string{"a": "1"}},
		{"flag&a=1", map[string]string{"a": "1"}},
		{"a=", map[string]string{"a": ""}},
		{"=v", map[string]string{"": "v"}},
		{"expr=x=y", map[string]string{"expr": "x=y"}},
		{"q=hello%20world&r=a+b", map[string]string{"q": "hello%20world", "r": "a+b"}},
		{"&&a=1&", map[string]string{"a": "1"}},
	} {
		assert.Equal(t, tc.want, ParseQuery(tc.raw), tc.raw)
	}
}

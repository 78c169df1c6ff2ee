package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Method string            `json:"method"`
	Query  map[string]string `json:"query"`
}

func TestJSON_MarshalNoHTMLEscape(t *testing.T) {
	b, err := JSON.Marshal(envelope{Method: "GET", Query: map[string]string{"q": "<a&b>"}})
	require.NoError(t, err)
	assert.Equal(t, `{"method":"GET","query":{"q":"<a&b>"}}`, string(b))
}

func TestJSON_UnmarshalStrict(t *testing.T) {
	var e envelope
	require.NoError(t, JSON.Unmarshal([]byte(`{"method":"PUT","query":{}}`), &e))
	assert.Equal(t, "PUT", e.Method)

	assert.Error(t, JSON.Unmarshal([]byte(`{"method":"PUT","extra":1}`), &e))
	assert.ErrorIs(t, JSON.Unmarshal([]byte(`{"method":"PUT"} {}`), &e), errTrailing)
}

package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_TOMLDefaults(t *testing.T) {
	p := writeFile(t, "steeze.toml", `
[routes]
dir = "./fns/"
extensions = ["JS", ".mjs"]
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "fns", cfg.Routes.Dir)
	assert.Equal(t, []string{".js", ".mjs"}, cfg.Routes.Extensions)
	assert.Equal(t, DefaultExport, cfg.Routes.Export)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.Equal(t, 5*time.Second, cfg.CallTimeout())
	assert.Equal(t, 6*time.Second, cfg.ReplyTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "steeze.yaml", `
server:
  listen: ":8080"
  reply_timeout_ms: 250
engine:
  call_timeout_ms: 100
journal:
  enabled: true
  path: calls.db
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 250*time.Millisecond, cfg.ReplyTimeout())
	assert.Equal(t, 100*time.Millisecond, cfg.CallTimeout())
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "calls.db", cfg.Journal.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"tls half set", "[server]\ntls_cert = \"a.pem\"\n", "tls_cert"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"negative timeout", "[engine]\ncall_timeout_ms = -1\n", "call_timeout_ms"},
		{"negative queue", "[engine]\nqueue_size = -1\n", "queue_size"},
		{"dotted export", "[routes]\nexport = \"module.handler\"\n", "routes.export"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "steeze.toml", tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestReplyTimeout_DisabledWatchdog(t *testing.T) {
	cfg := Default()
	cfg.Engine.CallTimeoutMS = intPtr(0)
	assert.Equal(t, time.Duration(0), cfg.ReplyTimeout())
}

func TestLoad_ExplicitZeroEngine(t *testing.T) {
	cfg, err := Load(writeFile(t, "steeze.toml", "[engine]\ncall_timeout_ms = 0\nqueue_size = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.CallTimeout())
	assert.Equal(t, 0, cfg.QueueSize())

	cfg, err = Load(writeFile(t, "steeze.toml", "[engine]\n"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.CallTimeout())
	assert.Equal(t, DefaultQueueSize, cfg.QueueSize())
}

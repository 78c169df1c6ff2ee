package manifest

// Server configures the HTTP front door.
type Server struct {
	Listen         string `toml:"listen" yaml:"listen"`
	TLSCert        string `toml:"tls_cert" yaml:"tls_cert"`
	TLSKey         string `toml:"tls_key" yaml:"tls_key"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms" yaml:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms" yaml:"write_timeout_ms"`
	IdleTimeoutMS  int    `toml:"idle_timeout_ms" yaml:"idle_timeout_ms"`
	// ReplyTimeoutMS bounds how long a request waits on the engine. Zero derives it from
	// the engine call timeout.
	ReplyTimeoutMS int `toml:"reply_timeout_ms" yaml:"reply_timeout_ms"`
}

// Routes configures filesystem route discovery.
type Routes struct {
	Dir        string   `toml:"dir" yaml:"dir"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Export     string   `toml:"export" yaml:"export"`
	Prelude    string   `toml:"prelude" yaml:"prelude"` // optional script run before routes on every load
}

// Engine configures the script execution engine. Both fields distinguish an
// explicit 0 (watchdog off, unbuffered queue) from unset.
type Engine struct {
	CallTimeoutMS *int `toml:"call_timeout_ms" yaml:"call_timeout_ms"`
	QueueSize     *int `toml:"queue_size" yaml:"queue_size"`
}

// Log configures the zap/lumberjack loggers.
type Log struct {
	Dir   string `toml:"dir" yaml:"dir"`
	Level string `toml:"level" yaml:"level"`
}

// Admin configures the bearer-token protected admin surface.
type Admin struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	SecretEnv string `toml:"secret_env" yaml:"secret_env"` // env var holding the HS256 secret
	Issuer    string `toml:"issuer" yaml:"issuer"`
	Role      string `toml:"role" yaml:"role"`
	DevBypass bool   `toml:"dev_bypass" yaml:"dev_bypass"`
}

// Journal configures the SQLite call journal.
type Journal struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultListen        = ":4000"
	DefaultRoutesDir     = "routes"
	DefaultExport        = "handler"
	DefaultCallTimeoutMS = 5000
	DefaultQueueSize     = 1024
	DefaultLogDir        = "log"
	DefaultAdminRole     = "admin"
	DefaultAdminSecret   = "STEEZE_ADMIN_SECRET"
	DefaultJournalPath   = "steeze-journal.db"
)

// Config is the top-level host manifest.
type Config struct {
	Server  Server  `toml:"server" yaml:"server"`
	Routes  Routes  `toml:"routes" yaml:"routes"`
	Engine  Engine  `toml:"engine" yaml:"engine"`
	Log     Log     `toml:"log" yaml:"log"`
	Admin   Admin   `toml:"admin" yaml:"admin"`
	Journal Journal `toml:"journal" yaml:"journal"`
}

// Default returns a normalized config used when no manifest file is present.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

// normalize fills defaults and canonicalizes user input.
func (c *Config) normalize() {
	c.Server.Listen = strings.TrimSpace(c.Server.Listen)
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.ReadTimeoutMS == 0 {
		c.Server.ReadTimeoutMS = 15000
	}
	if c.Server.WriteTimeoutMS == 0 {
		c.Server.WriteTimeoutMS = 30000
	}
	if c.Server.IdleTimeoutMS == 0 {
		c.Server.IdleTimeoutMS = 60000
	}

	c.Routes.Dir = strings.TrimSpace(c.Routes.Dir)
	if c.Routes.Dir == "" {
		c.Routes.Dir = DefaultRoutesDir
	}
	c.Routes.Dir = filepath.Clean(c.Routes.Dir)
	if len(c.Routes.Extensions) == 0 {
		c.Routes.Extensions = []string{".js"}
	}
	for i, ext := range c.Routes.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Routes.Extensions[i] = ext
	}
	c.Routes.Export = strings.TrimSpace(c.Routes.Export)
	if c.Routes.Export == "" {
		c.Routes.Export = DefaultExport
	}

	if c.Engine.CallTimeoutMS == nil {
		c.Engine.CallTimeoutMS = intPtr(DefaultCallTimeoutMS)
	}
	if c.Engine.QueueSize == nil {
		c.Engine.QueueSize = intPtr(DefaultQueueSize)
	}

	if strings.TrimSpace(c.Log.Dir) == "" {
		c.Log.Dir = DefaultLogDir
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Admin.SecretEnv == "" {
		c.Admin.SecretEnv = DefaultAdminSecret
	}
	if c.Admin.Role == "" {
		c.Admin.Role = DefaultAdminRole
	}

	if c.Journal.Path == "" {
		c.Journal.Path = DefaultJournalPath
	}
}

// Validate checks fields that normalize cannot repair.
func (c *Config) Validate() error {
	if c.Server.ReadTimeoutMS < 0 || c.Server.WriteTimeoutMS < 0 || c.Server.IdleTimeoutMS < 0 {
		return errors.New("server timeouts must be >= 0")
	}
	if c.Server.ReplyTimeoutMS < 0 {
		return errors.New("server.reply_timeout_ms must be >= 0")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server.tls_cert and server.tls_key must be set together")
	}
	for _, ext := range c.Routes.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("routes.extensions: invalid extension %q", ext)
		}
	}
	if strings.ContainsAny(c.Routes.Export, " .()[]") {
		return fmt.Errorf("routes.export %q is not a plain identifier", c.Routes.Export)
	}
	if c.callTimeoutMS() < 0 {
		return errors.New("engine.call_timeout_ms must be >= 0")
	}
	if c.QueueSize() < 0 {
		return errors.New("engine.queue_size must be >= 0")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q invalid", c.Log.Level)
	}
	return nil
}

// CallTimeout is the per-call engine watchdog; zero disables it.
func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.callTimeoutMS()) * time.Millisecond
}

// QueueSize is the engine queue buffer; zero means unbuffered.
func (c Config) QueueSize() int {
	if c.Engine.QueueSize == nil {
		return DefaultQueueSize
	}
	return *c.Engine.QueueSize
}

func (c Config) callTimeoutMS() int {
	if c.Engine.CallTimeoutMS == nil {
		return DefaultCallTimeoutMS
	}
	return *c.Engine.CallTimeoutMS
}

func intPtr(v int) *int { return &v }

// ReplyTimeout is how long the front door waits for an engine reply.
func (c Config) ReplyTimeout() time.Duration {
	if c.Server.ReplyTimeoutMS > 0 {
		return time.Duration(c.Server.ReplyTimeoutMS) * time.Millisecond
	}
	if c.callTimeoutMS() > 0 {
		return c.CallTimeout() + time.Second
	}
	return 0
}

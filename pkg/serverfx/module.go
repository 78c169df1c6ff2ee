// Package serverfx assembles the host as an fx application.
package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/core"
	"github.com/joeydtaylor/steeze-fn/pkg/engine"
	"github.com/joeydtaylor/steeze-fn/pkg/journal"
	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-fn/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-fn/pkg/routes"
	"github.com/joeydtaylor/steeze-fn/pkg/script"
	"github.com/joeydtaylor/steeze-fn/pkg/script/v8rt"
	"github.com/joeydtaylor/steeze-fn/pkg/transport/httpx"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only
	ManifestEnv     string // STEEZE_MANIFEST
	DefaultManifest string // steeze.toml
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
	ManifestPath    string // explicit path; wins over ManifestEnv
	Runtime         script.Factory
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithManifestPath(path string) Option    { return func(c *Config) { c.ManifestPath = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

// WithRuntime replaces the V8 runtime factory.
func WithRuntime(f script.Factory) Option { return func(c *Config) { c.Runtime = f } }

func defaultConfig() Config {
	return Config{
		Service:         "steeze-fn",
		ManifestEnv:     "STEEZE_MANIFEST",
		DefaultManifest: "steeze.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
	}
}

// Module returns a complete Fx option set.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(ProvideManifest),
		// Core middleware
		auth.Module,
		logger.Module,
		metrics.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		// Engine and journal
		fx.Provide(provideEngine),
		fx.Provide(provideJournal),
		// Router
		fx.Provide(fx.Annotate(
			provideRouter,
			fx.ParamTags(``, ``, ``, `name:"metrics"`, ``, ``, ``, ``), // man,a,lm,m,r,e,j,zl
			fx.ResultTags(`name:"app"`),
		)),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}

// ---------- Manifest ----------

// ProvideManifest loads the manifest and applies environment overrides.
func ProvideManifest(cfg Config) (manifest.Config, error) {
	path := cfg.ManifestPath
	if path == "" {
		path = envOr(cfg.ManifestEnv, cfg.DefaultManifest)
	}
	man, err := manifest.LoadOrDefault(path)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	man.Server.Listen = envOr(cfg.ListenEnv, man.Server.Listen)
	man.Server.TLSCert = envOr(cfg.TLSCertEnv, man.Server.TLSCert)
	man.Server.TLSKey = envOr(cfg.TLSKeyEnv, man.Server.TLSKey)
	return man, nil
}

// ---------- Engine ----------

func provideEngine(cfg Config, man manifest.Config, zl *zap.Logger, obs engine.Observer) *engine.Engine {
	factory := cfg.Runtime
	if factory == nil {
		factory = v8rt.Factory(v8rt.WithLogger(zl.Named("script")))
	}
	return engine.New(factory,
		routes.NewLoader(man.Routes, zl.Named("routes")),
		engine.WithLogger(zl.Named("engine")),
		engine.WithObserver(obs),
		engine.WithCallTimeout(man.CallTimeout()),
		engine.WithQueueSize(man.QueueSize()),
	)
}

// provideJournal opens the call journal, or returns nil when it is disabled.
func provideJournal(lc fx.Lifecycle, man manifest.Config, zl *zap.Logger) (core.Recorder, error) {
	if !man.Journal.Enabled {
		return nil, nil
	}
	st, err := journal.Open(man.Journal.Path)
	if err != nil {
		return nil, err
	}
	zl.Info("call journal open", zap.String("path", man.Journal.Path))
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return st.Close() }})
	return st, nil
}

// ---------- Router ----------

func provideRouter(
	man manifest.Config,
	a *auth.Middleware,
	lm *logger.Middleware,
	/* name:"metrics" */ m http.Handler,
	r httpx.Router,
	e *engine.Engine,
	j core.Recorder,
	zl *zap.Logger,
) http.Handler {
	return core.BuildRouter(man, core.BuildDeps{
		Auth:    a,
		LogMW:   lm,
		Metrics: m,
		Router:  r,
		Engine:  e,
		Journal: j,
		Log:     zl.Named("http"),
	})
}

// ---------- Lifecycle (engine + HTTP server) ----------

type serverDeps struct {
	fx.In
	Logger     *zap.Logger
	App        http.Handler `name:"app"`
	Engine     *engine.Engine
	Shutdowner fx.Shutdowner
}

func registerHooks(lc fx.Lifecycle, cfg Config, man manifest.Config, d serverDeps) {
	srv := &http.Server{
		Addr:         man.Server.Listen,
		Handler:      d.App,
		ReadTimeout:  msDuration(man.Server.ReadTimeoutMS),
		WriteTimeout: msDuration(man.Server.WriteTimeoutMS),
		IdleTimeout:  msDuration(man.Server.IdleTimeoutMS),
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	cert, key := man.Server.TLSCert, man.Server.TLSKey
	useTLS := fileExists(cert) && fileExists(key)

	hup := make(chan os.Signal, 1)
	stopHUP := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Route load errors are fatal: no serving with a partial table.
			if err := d.Engine.Start(ctx); err != nil {
				d.Logger.Error("initial route load failed", zap.Error(err), zap.String("dir", man.Routes.Dir))
				return fmt.Errorf("load routes from %s: %w", man.Routes.Dir, err)
			}

			signal.Notify(hup, syscall.SIGHUP)
			go reloadOnSignal(d, hup, stopHUP)

			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", cfg.Service), zap.String("addr", srv.Addr), zap.String("cert", cert))
				go serve(d, func() error { return srv.ListenAndServeTLS(cert, key) })
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", cfg.Service), zap.String("addr", srv.Addr))
				srv.TLSConfig = nil
				go serve(d, srv.ListenAndServe)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping")
			signal.Stop(hup)
			close(stopHUP)

			err := srv.Shutdown(ctx)
			d.Engine.Stop()
			select {
			case <-d.Engine.Done():
			case <-ctx.Done():
				d.Logger.Warn("engine did not stop before shutdown deadline")
			}
			return err
		},
	})
}

func serve(d serverDeps, listen func() error) {
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		d.Logger.Error("server failed", zap.Error(err))
		_ = d.Shutdowner.Shutdown(fx.ExitCode(1))
	}
}

func reloadOnSignal(d serverDeps, hup <-chan os.Signal, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-hup:
			ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
			n, err := d.Engine.Reload(ctx)
			cancel()
			if err != nil {
				d.Logger.Error("SIGHUP reload failed; previous routes kept", zap.Error(err))
				continue
			}
			d.Logger.Info("SIGHUP reload", zap.Int("routes", n))
		}
	}
}

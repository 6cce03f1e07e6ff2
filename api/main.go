package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/shelf-locator/internal/auth"
	"github.com/rogerio-castellano/shelf-locator/internal/config"
	"github.com/rogerio-castellano/shelf-locator/internal/db"
	api "github.com/rogerio-castellano/shelf-locator/internal/http"
	"github.com/rogerio-castellano/shelf-locator/internal/http/ban"
	"github.com/rogerio-castellano/shelf-locator/internal/http/handlers"
	rl "github.com/rogerio-castellano/shelf-locator/internal/http/rate_limiter"
	"github.com/rogerio-castellano/shelf-locator/internal/layout"
	"github.com/rogerio-castellano/shelf-locator/internal/logging"
	"github.com/rogerio-castellano/shelf-locator/internal/metrics"
	"github.com/rogerio-castellano/shelf-locator/internal/redissvc"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
	"github.com/rogerio-castellano/shelf-locator/internal/view"
	"github.com/sirupsen/logrus"
)

const (
	visitorCleanupInterval = time.Minute
	visitorMaxIdle         = 3 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("❌ Could not load config: %v", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := db.OpenProductStore(ctx, cfg.Store, log)
	if err != nil {
		log.Fatalf("❌ Could not open product store: %v", err)
	}
	defer closeStore()

	storeLayout, err := layout.Load(cfg.Layout.Path)
	if err != nil {
		log.Fatalf("❌ Could not load layout: %v", err)
	}

	m := metrics.New()
	handlers.SetLogger(log)
	handlers.SetMetrics(m)
	handlers.SetLayout(storeLayout)
	productResolver := resolver.New(store,
		resolver.WithPlaceholder(cfg.Resolver.Placeholder),
		resolver.WithLogger(log),
	)
	handlers.SetResolver(productResolver)

	strikes, closeStrikes := strikeStore(ctx, cfg.Redis, log)
	defer closeStrikes()
	banner := ban.NewBanner(strikes, cfg.Ban.MaxStrikes, cfg.Ban.Window, cfg.Ban.Duration, log)
	banner.OnBan(m.Bans.Inc)

	limiter := rl.New(cfg.Rate.RPS, cfg.Rate.Burst)
	go limiter.StartVisitorCleanupLoop(ctx, visitorCleanupInterval, visitorMaxIdle)

	opts := api.Options{
		Logger:  log,
		Metrics: m,
		Limiter: limiter,
		Banner:  banner,
		View:    view.NewHandler(storeLayout, view.NewResolverLookup(productResolver), log),

		TrustProxyHeaders: cfg.HTTP.TrustProxyHeaders,
	}
	if cfg.Auth.Enabled {
		opts.Authenticator = auth.NewAuthenticator(cfg.Auth.JWTSecret)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      api.NewRouter(opts),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}()

	log.Infof("✅ Server running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Info("server stopped")
}

// strikeStore returns the Redis-backed store when redis.addr is set and an
// in-memory one otherwise.
func strikeStore(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) (ban.StrikeStore, func() error) {
	if cfg.Addr == "" {
		log.Info("redis.addr not set, keeping ban strikes in memory")
		return ban.NewMemoryStrikeStore(), func() error { return nil }
	}
	rs, err := redissvc.Connect(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.WithField("addr", cfg.Addr).Info("✅ Connected to Redis")
	return ban.NewRedisStrikeStore(rs), rs.Close
}

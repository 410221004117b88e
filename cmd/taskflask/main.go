// Command taskflask serves the multi-tenant organization, role and session API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/config"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/email"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/httpserver"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/jwt"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/pg"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/ratelimiter"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/redis"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/requestid"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/tracing"
	"github.com/KeeganArn/TaskFlask-sub000/svc/api"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/storage/memory"
	"github.com/KeeganArn/TaskFlask-sub000/svc/storage/postgres"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflask: %v\n", err)
		os.Exit(1)
	}
}

// store is the union of what tenancy and auth need from persistence.
type store interface {
	tenancy.Store
	auth.UserStore
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[appConfig](config.WithEnvFiles(".env"))
	if err != nil {
		return err
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
		logger.WithContextExtractors(auth.LoggerExtractors()...),
	}
	if cfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(cfg.LogLevel))
	}
	if cfg.LogSource {
		logOpts = append(logOpts, logger.WithSource())
	}
	log := logger.New(logOpts...)
	slog.SetDefault(log)

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			log.Error("failed to flush traces", logger.Error(err))
		}
	}()

	var checks []httpserver.Check

	var st store
	if cfg.PG.Enabled() {
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pg.Migrate(ctx, pool, postgres.Migrations(), cfg.PG, log); err != nil {
			return err
		}
		st = postgres.New(pool)
		checks = append(checks, httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool)})
	} else {
		log.Warn("PG_CONN_URL is not set, using the in-memory store")
		mem := memory.New()
		st = mem
		checks = append(checks, httpserver.Check{Name: "memory", Probe: mem.Ping})
	}

	var (
		revocations auth.RevocationStore
		limitStore  ratelimiter.Store
	)
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		revocations = auth.NewRedisRevocations(client, cfg.Redis.KeyPrefix+"revoked:")
		limitStore = ratelimiter.NewRedisStore(client, cfg.Redis.KeyPrefix+"ratelimit:")
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
	} else {
		revocations = auth.NewMemoryRevocations()
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limitStore = mem
	}

	tenancySvc, closeTenancy, err := newTenancy(cfg, st, log)
	if err != nil {
		return err
	}
	defer closeTenancy()

	tokens, err := jwt.NewFromString(cfg.Auth.SigningKey,
		jwt.WithIssuer(cfg.Auth.Issuer),
		jwt.WithAudience(cfg.Auth.Audience),
		jwt.WithLeeway(cfg.Auth.Leeway),
	)
	if err != nil {
		return err
	}
	issuer := auth.NewIssuer(tokens, revocations,
		auth.WithSessionTTL(cfg.Auth.SessionTTL),
		auth.WithIssuerLogger(log),
	)
	authSvc := auth.NewService(st, tenancySvc, issuer,
		auth.WithPasswordHasher(auth.NewBcryptHasher(cfg.Auth.BcryptCost)),
		auth.WithPasswordStrength(cfg.Auth.passwordStrength()),
		auth.WithLogger(log),
	)

	limiter, err := ratelimiter.NewBucket(limitStore, ratelimiter.Config{
		Capacity:       cfg.Auth.RateLimitCapacity,
		RefillRate:     cfg.Auth.RateLimitRefill,
		RefillInterval: cfg.Auth.RateLimitInterval,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := api.NewMetrics(reg)
	if err != nil {
		return err
	}

	srv := api.New(authSvc, tenancySvc,
		api.WithLogger(log),
		api.WithMetrics(metrics),
		api.WithAuthLimiter(limiter),
		api.WithReadinessChecks(checks...),
		api.WithReadinessTimeout(cfg.API.ReadinessTimeout),
		api.WithRequestTimeout(cfg.API.RequestTimeout),
		api.WithQRCodeSize(cfg.API.QRCodeSize),
		api.WithJoinURL(cfg.API.JoinURL),
		api.WithSessionCookie(cfg.API.SessionCookie),
	)
	handler := otelhttp.NewHandler(srv.Handler(), cfg.Service)

	if err := httpserver.New(cfg.HTTP, handler, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newTenancy(cfg appConfig, st tenancy.Store, log *slog.Logger) (*tenancy.Service, func(), error) {
	catalog := tenancy.DefaultCatalog()
	if cfg.Tenancy.RolesFile != "" {
		f, err := os.Open(cfg.Tenancy.RolesFile)
		if err != nil {
			return nil, nil, err
		}
		catalog, err = tenancy.LoadCatalog(f)
		_ = f.Close()
		if err != nil {
			return nil, nil, err
		}
	}

	roles, err := tenancy.NewCachedRoles(cfg.Tenancy.RoleCacheMax, cfg.Tenancy.RoleCacheTTL)
	if err != nil {
		return nil, nil, err
	}

	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		roles.Close()
		return nil, nil, err
	}
	inviter, err := tenancy.NewEmailInviter(sender, cfg.API.JoinURL)
	if err != nil {
		roles.Close()
		return nil, nil, err
	}

	svc := tenancy.NewService(st,
		tenancy.WithCatalog(catalog),
		tenancy.WithRoleCache(roles),
		tenancy.WithInviter(inviter),
		tenancy.WithLogger(log),
	)
	return svc, roles.Close, nil
}

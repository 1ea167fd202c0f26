package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auctionhouse/internal/clock"
	"auctionhouse/internal/config"
	"auctionhouse/internal/database/db_client"
	"auctionhouse/internal/database/migrations"
	"auctionhouse/internal/http/authhandler"
	"auctionhouse/internal/http/http_server"
	"auctionhouse/internal/http/middleware"
	"auctionhouse/internal/metrics"
	"auctionhouse/internal/redis/redis_client"
	"auctionhouse/internal/repository"
	"auctionhouse/internal/services/auction"
	"auctionhouse/internal/services/auth"
	"auctionhouse/internal/services/authz"
	"auctionhouse/internal/services/permissions"
	"auctionhouse/internal/services/roles"
	"auctionhouse/internal/services/seed"
	"auctionhouse/internal/services/users"
)

var (
	Log, _ = zap.NewDevelopment()
)

//go:generate go tool swag init -g main.go -o api_specs

// @title			Auction House API
// @version		1.0
// @description	Auctions, bids and role based access control.
// @BasePath		/
func main() {
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("config_load_failed", zap.Error(err))
	}
	if !cfg.IsDevelopment() {
		if Log, err = zap.NewProduction(); err != nil {
			panic(err)
		}
		zap.ReplaceGlobals(Log)
	}
	defer func() { _ = Log.Sync() }()
	Log.Debug("config_loaded", zap.Stringer("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	cmd := ParseCommand(os.Args[1:])

	// 3. Schema migrations run before anything touches the tables
	if cmd == CommandMigrate {
		if err := migrations.Up(cfg.PostgresURL("pgx5")); err != nil {
			Log.Fatal("migrate", zap.Error(err))
		}
		return
	}

	// 4. Postgres db client
	pgDb, err := db_client.Open(ctx, cfg.PostgresURL("postgres"))
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	repos := newRepositories(pgDb)

	if cmd == CommandSeed {
		res, err := seed.Run(ctx, seed.Options{
			Permissions:     repos.permissions,
			Roles:           repos.roles,
			Users:           repos.users,
			DefaultRoleName: cfg.DefaultRoleName,
			AdminEmail:      cfg.SeedAdminEmail,
		})
		if err != nil {
			Log.Fatal("seed", zap.Error(err))
		}
		Log.Info("seed_done",
			zap.Int("permissions_created", res.Permissions),
			zap.Int("roles_created", res.Roles),
			zap.Bool("admin_granted", res.AdminGranted),
		)
		return
	}

	// 5. Redis backs token revocation when configured
	var revocations auth.RevocationStore = auth.NopRevocationStore{}
	if cfg.RedisHost != "" {
		var redisClient *redis.Client
		redisClient, err = redis_client.NewRedisClient(ctx, cfg.RedisHost, int(cfg.RedisPort))
		if err != nil {
			Log.Fatal("redis-open", zap.Error(err))
		}
		defer redisClient.Close()
		revocations = auth.NewRedisRevocationStore(redisClient)
	} else {
		Log.Warn("redis_disabled", zap.String("reason", "REDIS_HOST is empty, sign-out will not revoke tokens"))
	}

	// 6. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// 7. Services
	authService := auth.NewAuthService(auth.Options{
		Users:           repos.users,
		Roles:           repos.roles,
		Hasher:          auth.NewBcryptHasher(cfg.BcryptCost),
		Tokens:          auth.NewTokenManager(cfg.JwtSecret, cfg.JwtTTL),
		Revocations:     revocations,
		DefaultRoleName: cfg.DefaultRoleName,
		Failures:        collector,
	})
	services := http_server.Services{
		Auth:        authService,
		Authz:       authz.NewAuthzService(repos.users, repos.roles, collector),
		Auctions:    auction.NewAuctionService(repos.auctions, repos.bids, collector),
		Users:       users.NewUsersService(repos.users, repos.roles),
		Roles:       roles.NewRolesService(repos.roles),
		Permissions: permissions.NewPermissionsService(repos.permissions),
	}

	// 8. HTTP server
	httpServer := http_server.NewHttpServer(ctx, http_server.Options{
		ListenPort: cfg.HttpServerPort,
		DB:         pgDb,
		Metrics:    collector,
		Gatherer:   registry,
		Clock:      clock.SystemClock{},
		CorsOrigin: cfg.CorsAllowedOrigin,
		Cookie:     authhandler.CookieOptions{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure},
		AuthLimit:  middleware.PerMinute(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
		// nil keeps X-Forwarded-For out of the rate limiter key
		TrustedProxies: cfg.TrustedProxies,
		APISpecsDir:    cfg.APISpecsDir,
		Services:       services,
	})

	disposed := make(chan struct{})
	go func() {
		defer close(disposed)
		<-ctx.Done()
		if err := httpServer.Dispose(); err != nil {
			Log.Error("http_dispose", zap.Error(err))
		}
	}()

	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	<-disposed
	Log.Info("http_stopped")
}

type repositories struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	auctions    repository.AuctionRepository
	bids        repository.BidRepository
}

func newRepositories(db *sql.DB) repositories {
	return repositories{
		users:       repository.NewPostgresUserRepo(db),
		roles:       repository.NewPostgresRoleRepo(db),
		permissions: repository.NewPostgresPermissionRepo(db),
		auctions:    repository.NewPostgresAuctionRepo(db),
		bids:        repository.NewPostgresBidRepo(db),
	}
}

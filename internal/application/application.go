package application

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"skinvault/internal/config"
	"skinvault/internal/domain/service/auth"
	"skinvault/internal/domain/service/skin"
	"skinvault/internal/domain/service/trade"
	"skinvault/internal/infrastructure/notifier"
	"skinvault/internal/infrastructure/persistence"
	"skinvault/internal/infrastructure/pricing"
	"skinvault/internal/infrastructure/proxyclient"
	"skinvault/internal/server"
	"skinvault/internal/worker"
	"skinvault/pkg/application/connectors"
	"skinvault/pkg/application/modules"
	"skinvault/pkg/contextx"
	"skinvault/pkg/logx"
)

const (
	httpReadHeaderTimeout = 5 * time.Second
	priceCacheCleanup     = time.Minute
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run wires every component and blocks until ctx is done or a module fails.
func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if cfg.Postgres.Migrate {
		if err := persistence.Migrate(ctx, db); err != nil {
			return fmt.Errorf("persistence.Migrate: %w", err)
		}
	}

	skinRepo := persistence.NewSkinRepository(db, cfg.Postgres.QueryTimeout)
	userRepo := persistence.NewUserRepository(db, cfg.Postgres.QueryTimeout)

	var priceCache pricing.Cache = pricing.NewMemoryCache(priceCacheCleanup)

	if cfg.Redis.Enabled() {
		rds := &connectors.Redis{
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			Address:        cfg.Redis.Address,
			DatabaseNumber: cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
		}
		priceCache = pricing.NewRedisCache(rds.Client(ctx))

		defer rds.Close(ctx)
	}

	prices := pricing.NewClient(pricing.Options{
		BaseURL:   cfg.Pricing.BaseURL,
		APIKey:    cfg.Pricing.APIKey,
		PricePath: cfg.Pricing.PricePath,
		AppID:     cfg.Pricing.AppID,
		Timeout:   cfg.Pricing.Timeout,
		CacheTTL:  cfg.Pricing.CacheTTL,
		Cache:     priceCache,
	})

	skinService := skin.NewService(skinRepo).WithPriceSource(prices)
	authService := auth.NewService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var remote trade.RemoteEvaluator
	if cfg.Trade.ProxyURL != "" {
		remote = proxyclient.New(cfg.Trade.ProxyURL, cfg.Trade.ProxyAPIKey, cfg.Trade.ProxyTimeout, nil)
	}

	evaluator := trade.NewEvaluator(remote).
		WithRemoteTimeout(cfg.Trade.ProxyTimeout).
		WithObserver(server.ObserveTradeEvaluation)

	g, ctx := errgroup.WithContext(ctx)

	skinServer := server.NewSkinServer(skinService)

	if cfg.Redis.Enabled() {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		asynqClient := asynq.NewClient(redisOpt)
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger(ctx).Error("asynqClient.Close", logx.Error(err))
			}
		}()

		skinServer = skinServer.WithRefreshQueue(worker.NewRefreshQueue(asynqClient))

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DB,
		}.Run(ctx, g, modules.AsynqQueues{worker.RefreshQueueName: 1}, worker.RefreshHandler(skinService))
	}

	if cfg.Bot.Enabled() {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		skinService.Subscribe(bot.Enqueue)

		g.Go(func() error {
			return bot.Run(ctx)
		})
	}

	if cfg.Refresh.Interval > 0 {
		refresher := worker.NewPriceRefresher(skinService, cfg.Refresh.Interval).
			WithRateControl(cfg.Refresh.RequestInterval)

		if err := refresher.Start(ctx); err != nil {
			return fmt.Errorf("refresher.Start: %w", err)
		}

		defer func() {
			if refresher.IsRunning() {
				logger(ctx).Info("stopping price refresher")
			}

			refresher.Stop()
		}()
	}

	srv := server.NewServer(
		skinServer,
		server.NewAuthServer(authService),
		server.NewTradeServer(evaluator),
		server.NewProxyServer(prices),
	)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr: cfg.HTTP.ListenAddress,
		Handler: srv.NewRouter(server.RouterOptions{
			SensitiveDataMasker: logx.NewSensitiveDataMasker(),
			LogFieldMaxLen:      cfg.HTTP.LogFieldMaxLen,
		}),
		ReadHeaderTimeout: httpReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
	}.Run(ctx, g)
	modules.MetricServer{ListenAddress: cfg.Metrics.ListenAddress}.Run(ctx, g)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/surrealdb/surrealdb.go"
	"go.uber.org/fx"

	"tradelink/config"
	"tradelink/internal/delivery"
	"tradelink/internal/delivery/http"
	"tradelink/internal/delivery/http/middleware"
	"tradelink/internal/delivery/http/router/handler"
	"tradelink/internal/domain/repository"
	"tradelink/internal/domain/service"
	"tradelink/internal/infra/auth"
	"tradelink/internal/infra/cache"
	logs "tradelink/internal/infra/log"
	"tradelink/internal/infra/metrics"
	"tradelink/internal/infra/notification"
	"tradelink/internal/infra/payment"
	"tradelink/internal/infra/persistence/surreal"
	"tradelink/internal/store"
	"tradelink/internal/syncer"
	"tradelink/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			wireNotifications,
			startSyncer,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		metrics.New,
		newDatabase,
		newRemoteGateway,
		newStore,
		newSyncer,
		newSessionCache,
	)
}

// newDatabase connects to SurrealDB. A missing gateway section runs the
// service in offline mode with a nil connection.
func newDatabase(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, logger *slog.Logger) (*surrealdb.DB, error) {
	if cfg.Gateway == nil {
		logger.Warn("no gateway configured, running in offline mode")

		return nil, nil
	}

	db, err := surreal.Connect(ctx, cfg.Gateway)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

func newRemoteGateway(db *surrealdb.DB, logger *slog.Logger) repository.RemoteGateway {
	if db == nil {
		return nil
	}

	return surreal.NewGateway(db, logger)
}

func newStore(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, gateway repository.RemoteGateway) *store.Store {
	opts := []store.Option{
		store.WithRecorder(m),
	}
	if cfg.Sync.WriteTimeout > 0 {
		opts = append(opts, store.WithPersistTimeout(cfg.Sync.WriteTimeout))
	}
	if gateway != nil {
		opts = append(opts, store.WithGateway(gateway))
	}

	return store.New(logger, opts...)
}

func newSyncer(cfg *config.Config, gateway repository.RemoteGateway, st *store.Store, logger *slog.Logger, m *metrics.Metrics) *syncer.Syncer {
	if gateway == nil {
		return nil
	}

	return syncer.New(gateway, st, logger,
		syncer.WithFetchTimeout(cfg.Sync.FetchTimeout),
		syncer.WithProbeInterval(cfg.Sync.ProbeInterval),
		syncer.WithRecorder(m),
	)
}

func newSessionCache(lc fx.Lifecycle, cfg *config.Config) *cache.SessionCache {
	sessions := cache.NewSessionCache(cfg.Session.TTL, cfg.Session.CleanupInterval)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sessions.Close()

			return nil
		},
	})

	return sessions
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			newAuthenticator,
			newPushDeliverer,
			newPaymentProvider,
			notification.NewForwarder,
		),
	)
}

func newAuthenticator(db *surrealdb.DB, cfg *config.Config) service.Authenticator {
	if db == nil || cfg.Gateway == nil {
		return nil
	}

	return surreal.NewAuthenticator(db, cfg.Gateway)
}

// newPushDeliverer creates the Firebase deliverer. Firebase is optional;
// without it notifications stay in-app only.
func newPushDeliverer(ctx context.Context, cfg *config.Config) (service.PushDeliverer, error) {
	if cfg.Firebase == nil {
		return nil, nil
	}

	return notification.NewFirebaseService(ctx, cfg.Firebase.CredentialsPath)
}

func newPaymentProvider(cfg *config.Config, logger *slog.Logger) service.PaymentProvider {
	if cfg.Payment.Provider == "" {
		return nil
	}

	return payment.NewHostedProvider(cfg.Payment, logger)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewCatalogService,
			impl.NewOrderService,
			impl.NewSupportService,
			impl.NewModerationService,
			impl.NewNotificationService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewCatalogHandler,
			handler.NewOrderHandler,
			handler.NewSupportHandler,
			handler.NewModerationHandler,
			handler.NewNotificationHandler,
			handler.NewSystemHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// wireNotifications attaches the push forwarder to the store's
// notification stream.
func wireNotifications(st *store.Store, forwarder *notification.Forwarder) {
	st.OnNotifications(forwarder.Forward)
}

func startSyncer(lc fx.Lifecycle, ctx context.Context, s *syncer.Syncer, st *store.Store) {
	if s == nil {
		return
	}

	lc.Append(fx.Hook{
		// Subscriptions outlive the start hook, so they run under the
		// application context rather than the hook's.
		OnStart: func(context.Context) error {
			return s.Start(ctx)
		},
		OnStop: func(context.Context) error {
			s.Stop()
			st.Wait()

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}

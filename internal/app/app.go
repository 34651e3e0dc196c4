// Package app wires configuration, storage, domain services, and the HTTP
// server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/checkout"
	"github.com/xenking/glowmart/internal/domain/discount"
	"github.com/xenking/glowmart/internal/domain/pricing"
	"github.com/xenking/glowmart/internal/domain/report"
	"github.com/xenking/glowmart/internal/domain/review"
	"github.com/xenking/glowmart/internal/handler"
	"github.com/xenking/glowmart/internal/storage/postgres"
	"github.com/xenking/glowmart/internal/stripe"
	"github.com/xenking/glowmart/pkg/health"
	"github.com/xenking/glowmart/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories and stores.
	productRepo := postgres.NewProductRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	apikeyRepo := postgres.NewAPIKeyRepository(pool)
	feeConfig := postgres.NewFeeConfigStore(pool)
	checkoutStore := postgres.NewCheckoutStore(pool)
	reportStore := postgres.NewReportStore(pool)

	// Domain services.
	calculator := pricing.NewCalculator(feeConfig)
	cartService := cart.NewService(cartRepo, productRepo, discountRepo, calculator)
	resolver := discount.NewResolver(discountRepo)
	reviewService := review.NewService(reviewRepo, orderRepo)
	reportService := report.NewService(reportStore, cfg.Report.TopLimit, cfg.Report.LowStockThreshold)
	finalizer := checkout.NewFinalizer(cartRepo, calculator, checkoutStore)
	stripeClient := stripe.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)

	// HTTP handlers.
	h := handler.NewHandler(
		handler.Config{WebhookSecret: cfg.Stripe.WebhookSecret},
		productRepo,
		cartService,
		resolver,
		orderRepo,
		reviewService,
		reportService,
		finalizer,
		stripeClient,
		userRepo,
		feeConfig,
	)
	sec := handler.NewSecurity(apikeyRepo, userRepo, []byte(cfg.APIKeyPepper))

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux, sec)

	instrumented := otelhttp.NewHandler(mux, "glowmart-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "api_key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

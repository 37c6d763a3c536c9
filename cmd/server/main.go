package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ftour-be/internal/api"
	"ftour-be/internal/auth"
	"ftour-be/internal/cart"
	"ftour-be/internal/catalog"
	"ftour-be/internal/config"
	"ftour-be/internal/db"
	"ftour-be/internal/delivery"
	"ftour-be/internal/logger"
	"ftour-be/internal/metrics"
	"ftour-be/internal/middleware"
	"ftour-be/internal/order"
	"ftour-be/internal/packages"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var database *sql.DB
	if cfg.HasDatabase() {
		database = initDBFunc(cfg)
		defer database.Close()
	} else {
		logger.L().Warn("DB_HOST not set, carts and orders are kept in memory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.L().Info("storefront server running",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
		zap.String("delivery_windows", cfg.DeliveryWindows.String()),
	)
	return startServerFunc(ctx, srv)
}

// newServer wires every component. A nil database runs the storefront
// without durable persistence.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	policy, err := delivery.NewPolicy(cfg.DeliveryWindows, cfg.Location())
	if err != nil {
		return nil, fmt.Errorf("delivery policy: %w", err)
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	var (
		snapshots cart.SnapshotRepository
		orderRepo order.Repository
	)
	if database != nil {
		snapshots = cart.NewRepository(database)
		orderRepo = order.NewRepository(database)
	} else {
		orderRepo = order.NewMemoryRepository()
	}

	m := metrics.NewRegistry()
	carts := cart.NewRegistry(snapshots)
	cartSvc := cart.NewService(carts, cat)
	packageSvc := packages.NewService(cat, cartSvc, cfg.PackagePerPersonRate)
	orderSvc := order.NewService(orderRepo, carts, policy, m)

	if cfg.AdminPasswordHash == "" {
		logger.L().Warn("ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}

	limiter := middleware.NewLimiter(cfg.InternalSecretKey)
	go limiter.Run(ctx)
	go carts.Run(ctx)
	go packageSvc.Run(ctx)

	h := &api.Handlers{
		Catalog:       cat,
		Delivery:      policy,
		Carts:         cartSvc,
		Packages:      packageSvc,
		Orders:        orderSvc,
		Sessions:      issuer,
		Admins:        auth.NewAdminLogin(issuer, cfg.AdminPasswordHash),
		Metrics:       m,
		SecureCookies: cfg.AppEnv == "production",
	}
	return api.NewRouter(h, api.RouterConfig{
		InternalKey: cfg.InternalSecretKey,
		CORSOrigin:  cfg.CORSOrigin,
		Limiter:     limiter,
	}), nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default()
	}
	return catalog.Load(cfg.CatalogPath)
}

// startServer serves until ctx is cancelled, then drains in-flight requests.
func startServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

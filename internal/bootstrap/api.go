package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/api/handler"
	"github.com/kedr891/steam-inventory/internal/api/middleware"
	"github.com/kedr891/steam-inventory/internal/api/router"
	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/export"
	"github.com/kedr891/steam-inventory/internal/inventory"
	"github.com/kedr891/steam-inventory/pkg/logger"
)

func InitInventoryHandler(
	cfg *config.Config,
	runner *inventory.Runner,
	exporter *export.Exporter,
	storage domain.Storage,
	log *logger.Logger,
) *handler.InventoryHandler {
	return handler.NewInventoryHandler(runner, exporter, storage, log,
		handler.WithSupportedApps(cfg.Steam.SupportedApps),
		handler.WithOwnerOnlyTrigger(cfg.Auth.TriggerPolicy == config.TriggerPolicyOwner),
	)
}

func InitHTTPServer(cfg *config.Config, inventoryHandler *handler.InventoryHandler, log *logger.Logger) *http.Server {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.CookieName, log)

	router.SetupRoutes(engine, inventoryHandler, authMiddleware)

	addr := ":" + cfg.HTTP.Port
	// Синхронный fetch держит запрос до конца задачи
	return &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Inventory.FetchTimeout + 30*time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// RunHTTPServer блокируется до сигнала или отмены ctx. onShutdown вызываются после остановки сервера.
func RunHTTPServer(ctx context.Context, srv *http.Server, log *logger.Logger, onShutdown ...func()) error {
	defer func() {
		for _, fn := range onShutdown {
			fn()
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		log.Info("Context cancelled, shutting down")
	case err := <-serverErr:
		log.Error("Failed to start server", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Shutting down API server...")
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err != nil {
		return err
	}

	log.Info("API server stopped successfully")
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cmcs/internal/api"
	"cmcs/internal/api/handlers"
	"cmcs/internal/models"
	"cmcs/internal/render"
	"cmcs/internal/seed"
	"cmcs/internal/service"
	"cmcs/pkg/auth"
	"cmcs/pkg/config"
	"cmcs/pkg/logger"

	"go.uber.org/zap"
)

// @title Contract Monthly Claims API
// @version 1.0
// @description Claim submission, approval, invoicing and monthly reporting for contract lecturers.

// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Contract Monthly Claims service", zap.String("store", cfg.Store.Driver))

	ctx := context.Background()
	st, err := openStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.close()

	// SEED_FILE is mostly useful with the memory store, which starts empty.
	if path := os.Getenv("SEED_FILE"); path != "" {
		fx, err := seed.LoadFile(path)
		if err != nil {
			appLogger.Fatal("Failed to load seed file", zap.String("path", path), zap.Error(err))
		}
		if _, err := seed.Apply(ctx, fx, st.users, st.claims, logger.Component("seed")); err != nil {
			appLogger.Fatal("Failed to apply seed file", zap.Error(err))
		}
	}

	renderer, err := render.NewPDFRenderer(cfg.Render, logger.Component("render"))
	if err != nil {
		appLogger.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	// Initialize services
	timeout := cfg.Claims.OperationTimeout
	issuer := service.Issuer{
		Address: models.Address{
			Name:        cfg.Issuer.Name,
			Street:      cfg.Issuer.Street,
			Area:        cfg.Issuer.Area,
			City:        cfg.Issuer.City,
			Province:    cfg.Issuer.Province,
			PhoneNumber: cfg.Issuer.PhoneNumber,
			Email:       cfg.Issuer.Email,
		},
		SupportEmail: cfg.Issuer.SupportEmail,
	}
	claimService := service.NewClaimService(st.claims, st.users, timeout, logger.Component("claims"))
	invoiceService := service.NewInvoiceService(st.claims, st.users, st.invoices, renderer, issuer, timeout, logger.Component("invoices"))
	reportService := service.NewReportService(st.claims, st.reports, renderer, timeout, logger.Component("reports"))

	// Setup router
	app := api.SetupRouter(cfg.Server, api.Handlers{
		Claims:   handlers.NewClaimHandler(claimService, appLogger),
		Invoices: handlers.NewInvoiceHandler(invoiceService, appLogger),
		Reports:  handlers.NewReportHandler(reportService, appLogger),
	}, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

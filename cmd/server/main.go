package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/application/dispatcher"
	"github.com/gilangrmdnii/invoice-backend/internal/application/service"
	"github.com/gilangrmdnii/invoice-backend/internal/config"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/event"
	"github.com/gilangrmdnii/invoice-backend/internal/export"
	"github.com/gilangrmdnii/invoice-backend/internal/infrastructure/persistence/repository"
	"github.com/gilangrmdnii/invoice-backend/internal/infrastructure/persistence/sqlite"
	transporthttp "github.com/gilangrmdnii/invoice-backend/internal/transport/http"
	"github.com/gilangrmdnii/invoice-backend/pkg/database"
	"github.com/gilangrmdnii/invoice-backend/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Invoice Approval Backend",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Create the database directory before opening the file
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create database directory", zap.Error(err))
		}
	}

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Transaction manager shared by every service
	txManager := sqlite.NewDB(db.DB, logger)

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db.DB, logger)
	itemRepo := repository.NewItemRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	paymentRepo := repository.NewPaymentRepository(db.DB, logger)
	expenseRepo := repository.NewExpenseRepository(db.DB, logger)
	budgetRequestRepo := repository.NewBudgetRequestRepository(db.DB, logger)
	dashboardRepo := repository.NewDashboardRepository(db.DB, logger)

	// Initialize event dispatcher with audit-log subscribers
	kvLogger := kvAdapter{logger.Sugar()}
	events := dispatcher.NewDispatcher(dispatcher.WithLogger(kvLogger))
	registerEventHandlers(events, logger)

	// Initialize services
	invoiceService := service.NewInvoiceService(
		invoiceRepo, itemRepo, paymentRepo, projectRepo, txManager, events, kvLogger)
	expenseService := service.NewExpenseService(
		expenseRepo, projectRepo, txManager, events, kvLogger)
	budgetRequestService := service.NewBudgetRequestService(
		budgetRequestRepo, projectRepo, txManager, events, kvLogger)
	planService := service.NewPlanService(itemRepo, projectRepo, txManager, kvLogger)
	projectService := service.NewProjectService(projectRepo, dashboardRepo, kvLogger)

	// Initialize exporter and handlers
	exporter := export.NewExporter(logger)
	handlers := transporthttp.Handlers{
		Projects:       transporthttp.NewProjectHandler(projectService, planService, logger),
		Invoices:       transporthttp.NewInvoiceHandler(invoiceService, exporter, logger),
		Expenses:       transporthttp.NewExpenseHandler(expenseService, exporter, logger),
		BudgetRequests: transporthttp.NewBudgetRequestHandler(budgetRequestService, logger),
	}

	// Set Gin mode based on logger level
	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := transporthttp.NewRouter(handlers, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Drain in-flight event handlers before exiting
	if err := events.Close(); err != nil {
		logger.Error("Failed to close event dispatcher", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// registerEventHandlers subscribes an audit-log handler for every
// transition the approval engine emits. Notification channels (email,
// chat) would subscribe here the same way.
func registerEventHandlers(d dispatcher.Dispatcher, logger *zap.Logger) {
	types := []event.Type{
		event.TypeInvoiceApproved,
		event.TypeInvoiceRejected,
		event.TypeInvoicePaymentRecorded,
		event.TypeInvoicePaymentDeleted,
		event.TypeExpenseApproved,
		event.TypeExpenseRejected,
		event.TypeBudgetRequestApproved,
		event.TypeBudgetRequestRejected,
	}
	for _, t := range types {
		d.SubscribeNamed(t, "audit-log", func(ctx context.Context, evt *event.Event) error {
			logger.Info("Domain event",
				zap.String("event_id", evt.ID),
				zap.String("event_type", evt.Type.String()),
				zap.Int64("document_id", evt.DocumentID),
				zap.Int64("project_id", evt.ProjectID),
				zap.Int64("actor_id", evt.ActorID),
			)
			return nil
		})
	}
}

// kvAdapter exposes a zap.SugaredLogger through the key/value logging
// interface the application layer depends on.
type kvAdapter struct {
	s *zap.SugaredLogger
}

func (a kvAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.s.Infow(msg, keysAndValues...)
}

func (a kvAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.s.Errorw(msg, keysAndValues...)
}

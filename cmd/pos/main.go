package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/vertice-pos/vertice-pos/internal/app"
	"github.com/vertice-pos/vertice-pos/internal/cashbox"
	"github.com/vertice-pos/vertice-pos/internal/dashboard"
	"github.com/vertice-pos/vertice-pos/internal/finance"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/categories"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/clients"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/products"
	"github.com/vertice-pos/vertice-pos/internal/masterdata/suppliers"
	"github.com/vertice-pos/vertice-pos/internal/platform/db"
	"github.com/vertice-pos/vertice-pos/internal/receivables"
	"github.com/vertice-pos/vertice-pos/internal/sales"
	"github.com/vertice-pos/vertice-pos/internal/stock"
	"github.com/vertice-pos/vertice-pos/internal/users"
	"github.com/vertice-pos/vertice-pos/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	financeRepo := finance.NewRepository(pool)
	financeService := finance.NewService(financeRepo)

	stockRepo := stock.NewRepository(pool)
	stockService := stock.NewService(stockRepo)

	receivablesRepo := receivables.NewRepository(pool)
	receivablesService := receivables.NewService(receivablesRepo)

	salesRepo := sales.NewRepository(pool)
	summaryCache := sales.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)
	salesService := sales.NewService(salesRepo, sales.NoStockOnCreate{}, summaryCache)

	cashboxRepo := cashbox.NewRepository(pool)
	cashboxService := cashbox.NewService(cashboxRepo, financeRepo)

	clientsRepo := clients.NewRepository(pool)
	clientsService := clients.NewService(clientsRepo)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SalesHandler:       sales.NewHandler(logger, salesService),
		ReceivablesHandler: receivables.NewHandler(logger, receivablesService),
		StockHandler:       stock.NewHandler(logger, stockService),
		FinanceHandler:     finance.NewHandler(logger, financeService),
		CashboxHandler:     cashbox.NewHandler(logger, cashboxService),
		ClientsHandler:     clients.NewHandler(logger, clientsService),
		SuppliersHandler:   suppliers.NewHandler(logger, suppliers.NewRepository(pool)),
		CategoriesHandler:  categories.NewHandler(logger, categories.NewRepository(pool)),
		ProductsHandler:    products.NewHandler(logger, productsService),
		UsersHandler:       users.NewHandler(logger, usersService),
		DashboardHandler:   dashboard.NewHandler(logger, salesService, receivablesService, stockService),
		JobsHandler:        jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-admin-service/config"
	"github.com/fekuna/omnipos-admin-service/internal/auth"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/pkg/broker"
	"github.com/fekuna/omnipos-admin-service/pkg/cache"
	"github.com/fekuna/omnipos-admin-service/pkg/i18n"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/fekuna/omnipos-admin-service/pkg/middleware"
	"github.com/fekuna/omnipos-admin-service/pkg/search"
	"github.com/fekuna/omnipos-admin-service/pkg/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	collectionH "github.com/fekuna/omnipos-admin-service/internal/collection/handler"
	collectionRepo "github.com/fekuna/omnipos-admin-service/internal/collection/repository"
	collectionUC "github.com/fekuna/omnipos-admin-service/internal/collection/usecase"

	colorH "github.com/fekuna/omnipos-admin-service/internal/color/handler"
	colorRepo "github.com/fekuna/omnipos-admin-service/internal/color/repository"
	colorUC "github.com/fekuna/omnipos-admin-service/internal/color/usecase"

	couponH "github.com/fekuna/omnipos-admin-service/internal/coupon/handler"
	couponRepo "github.com/fekuna/omnipos-admin-service/internal/coupon/repository"
	couponUC "github.com/fekuna/omnipos-admin-service/internal/coupon/usecase"

	customerH "github.com/fekuna/omnipos-admin-service/internal/customer/handler"
	customerRepo "github.com/fekuna/omnipos-admin-service/internal/customer/repository"
	customerUC "github.com/fekuna/omnipos-admin-service/internal/customer/usecase"

	dashboardH "github.com/fekuna/omnipos-admin-service/internal/dashboard/handler"
	dashboardRepo "github.com/fekuna/omnipos-admin-service/internal/dashboard/repository"
	dashboardUC "github.com/fekuna/omnipos-admin-service/internal/dashboard/usecase"

	invH "github.com/fekuna/omnipos-admin-service/internal/inventory/handler"
	invListener "github.com/fekuna/omnipos-admin-service/internal/inventory/listener"
	invRepo "github.com/fekuna/omnipos-admin-service/internal/inventory/repository"
	invUC "github.com/fekuna/omnipos-admin-service/internal/inventory/usecase"

	orderH "github.com/fekuna/omnipos-admin-service/internal/order/handler"
	orderRepo "github.com/fekuna/omnipos-admin-service/internal/order/repository"
	orderUC "github.com/fekuna/omnipos-admin-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-admin-service/internal/product/handler"
	prodRepo "github.com/fekuna/omnipos-admin-service/internal/product/repository"
	prodUC "github.com/fekuna/omnipos-admin-service/internal/product/usecase"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the gRPC health endpoint and the stock listener",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLogger, err := bootstrap()
			if err != nil {
				return err
			}
			defer appLogger.Sync()
			return serve(cmd.Context(), cfg, appLogger)
		},
	}
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func serve(parent context.Context, cfg *config.Config, appLogger logger.ZapLogger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Localized errors
	tr, err := i18n.New(cfg.Server.Locales...)
	if err != nil {
		return err
	}
	re := httpx.NewResponder(tr, appLogger)

	// 2. Database
	db, err := connectPostgres(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	// 3. Redis backs list caches and the per-variant stock lock.
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 4. Elasticsearch is optional; listing falls back to SQL.
	var indexer search.Indexer
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("elasticsearch unavailable, product search uses the database", zap.Error(err))
	} else {
		indexer = esClient
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 5. Object storage
	uploader, err := storage.New(ctx, &storage.Config{
		Driver:        cfg.Storage.Driver,
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return err
	}

	// 6. Kafka
	catalogProducer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.CatalogTopic})
	defer catalogProducer.Close()
	orderProducer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.OrderTopic})
	defer orderProducer.Close()
	orderConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrderTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer orderConsumer.Close()

	// 7. Usecases
	threshold := cfg.Inventory.LowStockThreshold
	productUseCase := prodUC.NewProductUseCase(prodRepo.NewPGRepository(db), redisClient, indexer, uploader, catalogProducer, nil, appLogger)
	collectionUseCase := collectionUC.NewCollectionUseCase(collectionRepo.NewPGRepository(db), uploader, appLogger)
	colorUseCase := colorUC.NewColorUseCase(colorRepo.NewPGRepository(db), appLogger)
	customerUseCase := customerUC.NewCustomerUseCase(customerRepo.NewPGRepository(db), appLogger)
	orderUseCase := orderUC.NewOrderUseCase(orderRepo.NewPGRepository(db), orderProducer, appLogger)
	couponUseCase := couponUC.NewCouponUseCase(couponRepo.NewPGRepository(db), appLogger)
	inventoryUseCase := invUC.NewInventoryUseCase(invRepo.NewPGRepository(db), redisClient, redisClient, threshold, appLogger)
	dashboardUseCase := dashboardUC.NewDashboardUseCase(dashboardRepo.NewPGRepository(db), redisClient, threshold, appLogger)

	// 8. Stock listener
	listener := invListener.NewInventoryListener(orderConsumer, inventoryUseCase, appLogger)
	go listener.Start(ctx)

	// 9. HTTP
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, middleware.RequestLogger(appLogger), chimw.Recoverer, metrics.Handler)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			re.Error(w, req, err)
			return
		}
		re.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	handlers := []routeRegistrar{
		prodH.NewProductHandler(productUseCase, re, appLogger),
		collectionH.NewCollectionHandler(collectionUseCase, re, appLogger),
		colorH.NewColorHandler(colorUseCase, re, appLogger),
		customerH.NewCustomerHandler(customerUseCase, re, appLogger),
		orderH.NewOrderHandler(orderUseCase, re, appLogger),
		couponH.NewCouponHandler(couponUseCase, re, appLogger),
		invH.NewInventoryHandler(inventoryUseCase, re, appLogger),
		dashboardH.NewDashboardHandler(dashboardUseCase, re, appLogger),
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.JWT.SecretKey, cfg.JWT.Issuer, re))
		for _, h := range handlers {
			h.RegisterRoutes(r)
		}
	})

	httpAddr := listenAddr(cfg.Server.HTTPPort)
	httpServer := &http.Server{Addr: httpAddr, Handler: r}

	// 10. gRPC health for the orchestrator
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	grpcAddr := listenAddr(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		appLogger.Info("starting HTTP server", zap.String("addr", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		appLogger.Info("starting gRPC server", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		appLogger.Error("server failed", zap.Error(runErr))
		stop()
	}

	appLogger.Info("shutting down")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("server stopped")
	return runErr
}

// listenAddr accepts a bare port ("8080") as well as a full address.
func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

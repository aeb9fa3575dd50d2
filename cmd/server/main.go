package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpctl "storefront/internal/controllers/http"
	"storefront/internal/config"
	"storefront/internal/infra"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/repository/memory"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/services"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := newOrderRepository(cfg)
	if err != nil {
		log.Error("db: connect", "err", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()

	productClient := infra.NewProductClient(cfg.ProductServiceURL, 2*time.Second)
	catalog := services.NewProductCatalog(productClient, redisClient, time.Minute)
	carts := services.NewCartManager(repo, services.NewOrderFactory())

	go func() {
		time.Sleep(5 * time.Second)
		if err := catalog.Warmup(ctx, []uint64{1, 2}); err != nil {
			log.Warn("product cache warmup failed", "err", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpctl.SessionMiddleware(session.NewRedisProvider(redisClient, cfg.SessionTTL), cfg.SessionTTL))
	httpctl.NewHandler(carts, catalog).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting storefront", "addr", srv.Addr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newOrderRepository(cfg config.Config) (repository.OrderRepository, error) {
	if cfg.Storage == "memory" {
		slog.Warn("using in-memory order storage; carts are lost on restart")
		return memory.NewOrderRepository(), nil
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		return nil, err
	}
	return mysqlrepo.NewOrderRepository(db), nil
}

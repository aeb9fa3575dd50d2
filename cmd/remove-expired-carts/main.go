// Command remove-expired-carts deletes carts that have been inactive for a
// number of days (default 2).
//
//	remove-expired-carts [days]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	rabbit "storefront/internal/infra/rabbitmq"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/logger"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "remove-expired-carts", Env: cfg.AppEnv, Level: cfg.LogLevel, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connect := func() (cartRemover, func(), error) {
		db, err := mmysql.NewMySQL(cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}

		var publisher rabbit.PublisherInterface
		closePublisher := func() {}
		if cfg.RabbitMQURL != "" {
			p, err := rabbit.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
			if err != nil {
				log.Warn("event publishing disabled", "err", err)
			} else {
				publisher = p
				closePublisher = p.Close
			}
		}

		cleanup := func() {
			closePublisher()
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return services.NewCartSweeper(mysqlrepo.NewOrderRepository(db), publisher, cfg.SweepBatchSize), cleanup, nil
	}

	code := run(ctx, os.Args[1:], connect, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

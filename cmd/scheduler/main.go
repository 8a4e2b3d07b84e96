package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/bank"
	"github.com/perchfin/lending-engine/internal/config"
	"github.com/perchfin/lending-engine/internal/notify"
	"github.com/perchfin/lending-engine/internal/repository"
	"github.com/perchfin/lending-engine/internal/risk"
	"github.com/perchfin/lending-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	bankClient := bank.NewClient(cfg.Bank, logger)
	evaluator := risk.NewRuleEvaluator(logger)
	sender := notify.NewSender(cfg.SMTP, logger)

	ledgerService := service.NewLedgerService(accountRepo, ledgerRepo, bankClient, evaluator, redisClient, cfg, logger)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatalf("Invalid scheduler timezone: %v", err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Pull the bank statement and record repayments just after midnight.
	_, err = c.AddFunc("0 0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		count, err := ledgerService.IngestStatement(ctx, bankClient)
		if err != nil {
			logger.WithError(err).Error("statement ingestion failed")
			return
		}
		logger.WithField("count", count).Info("statement ingestion completed")
	})
	if err != nil {
		logger.Fatalf("Failed to schedule statement ingestion: %v", err)
	}

	// Send upcoming-installment reminders each morning.
	_, err = c.AddFunc("0 0 9 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := ledgerService.SendReminders(ctx, sender, time.Now()); err != nil {
			logger.WithError(err).Error("reminder sweep failed")
			return
		}
		logger.Info("reminder sweep completed")
	})
	if err != nil {
		logger.Fatalf("Failed to schedule reminders: %v", err)
	}

	c.Start()
	logger.Info("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down scheduler...")

	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("Scheduler exited")
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/config"
	"github.com/viktosha/grammar-tutor-bot/internal/delivery/telegram"
	"github.com/viktosha/grammar-tutor-bot/internal/infra/postgres"
	pgrepo "github.com/viktosha/grammar-tutor-bot/internal/infra/postgres/repository"
	redisrepo "github.com/viktosha/grammar-tutor-bot/internal/infra/redis"
	"github.com/viktosha/grammar-tutor-bot/internal/logger"
	"github.com/viktosha/grammar-tutor-bot/internal/repository"
	"github.com/viktosha/grammar-tutor-bot/internal/service"
	"github.com/viktosha/grammar-tutor-bot/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zapLogger.Fatal("failed to create bot api", zap.Error(err))
	}

	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Запустити бота / Start the bot",
		},
		{
			Command:     "topics",
			Description: "Всі теми граматики / All grammar topics",
		},
		{
			Command:     "progress",
			Description: "Показати прогрес / Show progress",
		},
		{
			Command:     "help",
			Description: "Допомога / Help",
		},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zapLogger.Warn("failed to set bot commands", zap.Error(err))
	}

	zapLogger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	topicRepo, err := repository.NewTopicRepository(cfg.TopicsJSONPath)
	if err != nil {
		zapLogger.Fatal("failed to load topic catalog", zap.Error(err))
	}
	zapLogger.Info("topic catalog loaded", zap.Int("topics", topicRepo.Count()))

	var progressRepo service.ProgressRepository

	switch cfg.Storage.Driver {
	case config.DriverRedis:
		client, err := redisrepo.NewClient(ctx, cfg.Storage.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close() //nolint:errcheck

		progressRepo = redisrepo.NewProgressRepository(client, zapLogger)

	default:
		pool, err := postgres.NewPool(ctx, cfg.Storage.DatabaseURL, postgres.PoolConfig{
			MaxConns:        cfg.Storage.MaxConnections,
			MaxConnLifetime: cfg.Storage.MaxConnLifetime,
		})
		if err != nil {
			zapLogger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		progressRepo = pgrepo.NewProgressRepository(pool, zapLogger)
	}

	progressService := service.NewProgressService(progressRepo, zapLogger)
	sessionService := service.NewSessionService(
		topicRepo,
		progressService,
		storage.NewSessionStorage(),
		zapLogger,
	)

	handler := telegram.NewHandler(
		bot,
		zapLogger,
		topicRepo,
		sessionService,
		progressService,
	)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zapLogger.Fatal("handler stopped", zap.Error(err))
	}

	zapLogger.Info("shutdown signal received")
}

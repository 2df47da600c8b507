package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"github.com/bagassaputradewa/Telegram-Bot/internal/config"
	"github.com/bagassaputradewa/Telegram-Bot/internal/handler"
	"github.com/bagassaputradewa/Telegram-Bot/internal/pkg/logger"
	"github.com/bagassaputradewa/Telegram-Bot/internal/repository/contract"
	"github.com/bagassaputradewa/Telegram-Bot/internal/repository/memory"
	"github.com/bagassaputradewa/Telegram-Bot/internal/repository/redisrepo"
	"github.com/bagassaputradewa/Telegram-Bot/internal/service"
	"github.com/bagassaputradewa/Telegram-Bot/pkg/gopher"
)

type Container struct {
	Logger logger.ILogger

	SessionService service.ISessionService

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Transport
	TelegramHandler *handler.TelegramHandler
}

func NewContainer(cfg *config.Config, bot *tgbotapi.BotAPI) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Outbound message bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(cfg.App.OutboundTopic, pubSub)

	// 3. Session storage
	var sessionRepo contract.ISearchSessionRepository
	if cfg.Session.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Session.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisrepo.NewSessionRepository(rdb)
		log.Printf("[INFO] Using Session Backend: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository()
		log.Printf("[INFO] Using Session Backend: MEMORY")
	}

	// 4. Services
	apiClient := gopher.NewClient(cfg.Gopher.BaseURL, cfg.Gopher.APIToken)

	searchService := service.NewSearchService(
		apiClient,
		sessionRepo,
		publisherService,
		sysLogger,
		service.SearchOptions{
			MaxResults: cfg.Gopher.MaxResults,
			MaxRetries: cfg.Gopher.MaxRetries,
			RetryDelay: cfg.Gopher.RetryDelay,
		},
	)
	sessionService := service.NewSessionService(
		sessionRepo,
		publisherService,
		searchService,
		sysLogger,
	)

	// 5. Transport adapter; it also delivers the outbound bus
	telegramHandler := handler.NewTelegramHandler(bot, sessionService, publisherService, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.App.OutboundTopic, telegramHandler, sysLogger)

	return &Container{
		Logger:          sysLogger,
		SessionService:  sessionService,
		ConsumerService: consumerService,
		TelegramHandler: telegramHandler,
	}
}

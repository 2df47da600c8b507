package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bagassaputradewa/Telegram-Bot/internal/bootstrap"
	"github.com/bagassaputradewa/Telegram-Bot/internal/config"
	"github.com/bagassaputradewa/Telegram-Bot/internal/server"
	"github.com/bagassaputradewa/Telegram-Bot/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// Missing bot token is an operator error, not a runtime condition.
	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		color.Red("❌ Error: BOT TOKEN not set!")
		fmt.Println("Please set the TELEGRAM_BOT_TOKEN environment variable")
		os.Exit(1)
	}

	// 2. Connect to Telegram
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("Unable to connect to Telegram: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg, bot)
	defer container.Logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Unable to start outbound consumer: %v", err)
	}

	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()

	// 5. Run the bot
	color.Green("🤖 Bot is starting...")
	color.Cyan("📱 Bot: @%s", bot.Self.UserName)

	if err := container.TelegramHandler.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot stopped with error: %v", err)
	}
}

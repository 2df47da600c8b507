package handler

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bagassaputradewa/Telegram-Bot/internal/constant"
	"github.com/bagassaputradewa/Telegram-Bot/internal/dto"
	"github.com/bagassaputradewa/Telegram-Bot/internal/pkg/logger"
	"github.com/bagassaputradewa/Telegram-Bot/internal/service"
)

// TelegramHandler adapts the Telegram long-polling transport to the
// session service. Inbound updates are dispatched one goroutine each, so
// a user waiting on a search never blocks another user's dialogue; the
// session service serializes transitions per user underneath. It also
// implements service.MessageSender for the outbound consumer.
type TelegramHandler struct {
	bot       *tgbotapi.BotAPI
	sessions  service.ISessionService
	publisher service.IPublisherService
	logger    logger.ILogger
}

func NewTelegramHandler(
	bot *tgbotapi.BotAPI,
	sessions service.ISessionService,
	publisher service.IPublisherService,
	log logger.ILogger,
) *TelegramHandler {
	return &TelegramHandler{
		bot:       bot,
		sessions:  sessions,
		publisher: publisher,
		logger:    log,
	}
}

// Run consumes the update channel until the context is cancelled.
func (h *TelegramHandler) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	h.logger.Info("telegram", "Bot is running with polling", map[string]interface{}{
		"username": h.bot.Self.UserName,
	})

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go h.dispatch(ctx, update)
		}
	}
}

func (h *TelegramHandler) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		h.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		h.handleText(ctx, update.Message)
	}
}

func (h *TelegramHandler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge the button press so the client stops its spinner.
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		h.logger.Warn("telegram", "Failed to ack callback", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if cb.Message == nil {
		return
	}

	err := h.sessions.SelectType(ctx, cb.From.ID, cb.Message.Chat.ID, cb.Message.MessageID, cb.Data)
	if err != nil && err != service.ErrSessionExpired {
		h.logger.Error("telegram", "Type selection failed", map[string]interface{}{
			"user_id": cb.From.ID,
			"error":   err.Error(),
		})
	}
}

func (h *TelegramHandler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	h.logger.Info("telegram", "Command received", map[string]interface{}{
		"user_id": userID,
		"command": msg.Command(),
	})

	switch msg.Command() {
	case "start":
		h.sessions.Abandon(ctx, userID)
		h.reply(ctx, chatID, constant.WelcomeMessage)
	case "help":
		h.sessions.Abandon(ctx, userID)
		h.reply(ctx, chatID, constant.HelpMessage)
	case "info":
		h.sessions.Abandon(ctx, userID)
		h.reply(ctx, chatID, infoText(msg))
	case "search":
		if err := h.sessions.Begin(ctx, userID, chatID); err != nil {
			h.logger.Error("telegram", "Failed to begin search dialogue", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	default:
		h.reply(ctx, chatID, constant.UnknownCommandMessage)
	}
}

func (h *TelegramHandler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	handled, err := h.sessions.HandleText(ctx, msg.From.ID, msg.Chat.ID, msg.Text)
	if err != nil {
		h.logger.Error("telegram", "Text handling failed", map[string]interface{}{
			"user_id": msg.From.ID,
			"error":   err.Error(),
		})
		return
	}
	if handled {
		return
	}

	// Default message behavior: echo back what the user wrote.
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf(
		"💬 You wrote:\n\n%s\n\n✅ Message received successfully!",
		msg.Text,
	))
}

func (h *TelegramHandler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.publisher.SendText(ctx, chatID, text); err != nil {
		h.logger.Error("telegram", "Failed to publish reply", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func infoText(msg *tgbotapi.Message) string {
	chatName := msg.Chat.Title
	if chatName == "" {
		chatName = "Private Chat"
	}

	lastName := ""
	if msg.From.LastName != "" {
		lastName = " " + msg.From.LastName
	}

	return fmt.Sprintf(
		"📊 Bot Information\n\n"+
			"Chat Info:\n"+
			"• Chat ID: %d\n"+
			"• Chat Type: %s\n"+
			"• Chat Name: %s\n\n"+
			"User Info:\n"+
			"• Name: %s%s\n"+
			"• Username: @%s\n"+
			"• User ID: %d\n\n"+
			"Bot Info:\n"+
			"• Status: 🟢 Online\n"+
			"• Version: 1.0.0\n"+
			"• Framework: telegram-bot-api",
		msg.Chat.ID, msg.Chat.Type, chatName,
		msg.From.FirstName, lastName, msg.From.UserName, msg.From.ID,
	)
}

// SendText implements service.MessageSender.
func (h *TelegramHandler) SendText(chatID int64, text string) error {
	_, err := h.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendMenu implements service.MessageSender.
func (h *TelegramHandler) SendMenu(chatID int64, text string, menu []dto.MenuOption) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu))
	for _, opt := range menu {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Data),
		))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := h.bot.Send(msg)
	return err
}

// EditText implements service.MessageSender.
func (h *TelegramHandler) EditText(chatID int64, messageID int, text string) error {
	_, err := h.bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/bagassaputradewa/Telegram-Bot/internal/dto"
	"github.com/bagassaputradewa/Telegram-Bot/internal/pkg/logger"
)

// MessageSender is the transport surface the consumer delivers to. The
// Telegram adapter implements it; tests substitute a recorder.
type MessageSender interface {
	SendText(chatID int64, text string) error
	SendMenu(chatID int64, text string, menu []dto.MenuOption) error
	EditText(chatID int64, messageID int, text string) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the outbound bus and hands each message to the
// chat transport. A single subscriber keeps per-chat delivery order.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sender    MessageSender
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sender MessageSender,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		sender:    sender,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Chat deliveries are not retried: a failed send is logged and
	// dropped rather than replayed out of order. Ack everything.
	defer msg.Ack()

	var payload dto.OutboundMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal outbound message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	var err error
	switch payload.Kind {
	case dto.OutboundKindText:
		err = cs.sender.SendText(payload.ChatID, payload.Text)
	case dto.OutboundKindMenu:
		err = cs.sender.SendMenu(payload.ChatID, payload.Text, payload.Menu)
	case dto.OutboundKindEdit:
		err = cs.sender.EditText(payload.ChatID, payload.MessageID, payload.Text)
	default:
		err = fmt.Errorf("unknown outbound kind %q", payload.Kind)
	}

	if err != nil {
		cs.log.Error("consumer", "Failed to deliver outbound message", map[string]interface{}{
			"error":   err.Error(),
			"kind":    payload.Kind,
			"chat_id": payload.ChatID,
		})
	}
}

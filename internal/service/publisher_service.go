package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/bagassaputradewa/Telegram-Bot/internal/dto"
)

// IPublisherService is the outbound side of the chat transport: every
// message the bot sends goes through here onto the in-process bus, so
// business services never hold a reference to the transport itself.
type IPublisherService interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMenu(ctx context.Context, chatID int64, text string, menu []dto.MenuOption) error
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) SendText(ctx context.Context, chatID int64, text string) error {
	return ps.publish(dto.OutboundMessage{
		Kind:   dto.OutboundKindText,
		ChatID: chatID,
		Text:   text,
	})
}

func (ps *publisherService) SendMenu(ctx context.Context, chatID int64, text string, menu []dto.MenuOption) error {
	return ps.publish(dto.OutboundMessage{
		Kind:   dto.OutboundKindMenu,
		ChatID: chatID,
		Text:   text,
		Menu:   menu,
	})
}

func (ps *publisherService) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	return ps.publish(dto.OutboundMessage{
		Kind:      dto.OutboundKindEdit,
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
}

func (ps *publisherService) publish(msg dto.OutboundMessage) error {
	msg.ID = uuid.New().String()

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling outbound message: %w", err)
	}

	if err := ps.pubSub.Publish(ps.topicName, message.NewMessage(msg.ID, payload)); err != nil {
		return fmt.Errorf("publishing outbound message: %w", err)
	}
	return nil
}

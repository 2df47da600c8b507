package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagassaputradewa/Telegram-Bot/internal/dto"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []dto.OutboundMessage
}

func (s *recordingSender) SendText(chatID int64, text string) error {
	return s.record(dto.OutboundMessage{Kind: dto.OutboundKindText, ChatID: chatID, Text: text})
}

func (s *recordingSender) SendMenu(chatID int64, text string, menu []dto.MenuOption) error {
	return s.record(dto.OutboundMessage{Kind: dto.OutboundKindMenu, ChatID: chatID, Text: text, Menu: menu})
}

func (s *recordingSender) EditText(chatID int64, messageID int, text string) error {
	return s.record(dto.OutboundMessage{Kind: dto.OutboundKindEdit, ChatID: chatID, MessageID: messageID, Text: text})
}

func (s *recordingSender) record(msg dto.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) all() []dto.OutboundMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.OutboundMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

func TestConsumerDeliversPublishedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sender := &recordingSender{}
	consumer := NewConsumerService(pubSub, "CHAT_OUTBOUND", sender, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("CHAT_OUTBOUND", pubSub)
	require.NoError(t, publisher.SendText(ctx, 100, "first"))
	require.NoError(t, publisher.SendMenu(ctx, 100, "pick one", []dto.MenuOption{{Label: "🔍 Search by Query", Data: "searchbyquery"}}))
	require.NoError(t, publisher.EditText(ctx, 100, 7, "edited"))

	require.Eventually(t, func() bool {
		return len(sender.all()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	sent := sender.all()
	assert.Equal(t, dto.OutboundKindText, sent[0].Kind)
	assert.Equal(t, "first", sent[0].Text)

	assert.Equal(t, dto.OutboundKindMenu, sent[1].Kind)
	require.Len(t, sent[1].Menu, 1)
	assert.Equal(t, "searchbyquery", sent[1].Menu[0].Data)

	assert.Equal(t, dto.OutboundKindEdit, sent[2].Kind)
	assert.Equal(t, 7, sent[2].MessageID)
	assert.Equal(t, "edited", sent[2].Text)
}

func TestConsumerPreservesOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sender := &recordingSender{}
	consumer := NewConsumerService(pubSub, "CHAT_OUTBOUND", sender, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("CHAT_OUTBOUND", pubSub)
	want := []string{"chunk 1", "chunk 2", "chunk 3", "chunk 4"}
	for _, text := range want {
		require.NoError(t, publisher.SendText(ctx, 100, text))
	}

	require.Eventually(t, func() bool {
		return len(sender.all()) == len(want)
	}, 2*time.Second, 10*time.Millisecond)

	for i, msg := range sender.all() {
		assert.Equal(t, want[i], msg.Text)
	}
}

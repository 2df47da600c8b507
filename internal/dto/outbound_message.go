package dto

const (
	OutboundKindText = "text"
	OutboundKindMenu = "menu"
	OutboundKindEdit = "edit"
)

type MenuOption struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// OutboundMessage is one chat delivery published on the outbound bus.
// Kind "text" sends a new message, "menu" sends a message with an
// inline option menu, and "edit" rewrites a previously sent message.
type OutboundMessage struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"`
	ChatID    int64        `json:"chat_id"`
	MessageID int          `json:"message_id,omitempty"`
	Text      string       `json:"text"`
	Menu      []MenuOption `json:"menu,omitempty"`
}

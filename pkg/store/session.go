package store

// Session represents the active search dialogue state for one user, held
// in memory for the lifetime of a single search flow. A session existing
// in the repository is the "user is busy" signal; there is no separate
// busy flag.
type Session struct {
	UserID int64  `json:"user_id"`
	ChatID int64  `json:"chat_id"`
	Step   string `json:"step"`

	// Search parameters, filled in as the dialogue progresses.
	Platform   string `json:"platform"`
	SearchType string `json:"search_type"`
	Query      string `json:"query"`
}

const (
	StepAwaitingType  = "AWAITING_TYPE"
	StepAwaitingQuery = "AWAITING_QUERY"
	StepSearching     = "SEARCHING"
)

// PlatformTwitter is the only platform the bot currently targets. The
// field is carried on the session so additional platforms can be added
// without touching the flow.
const PlatformTwitter = "twitter"

func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID:   userID,
		ChatID:   chatID,
		Step:     StepAwaitingType,
		Platform: PlatformTwitter,
	}
}

package contract

import (
	"context"

	"github.com/bagassaputradewa/Telegram-Bot/pkg/store"
)

// ISearchSessionRepository stores the per-user search dialogue state.
// The key is the user identifier; a present key means that user has a
// search in flight. Implementations must be safe for concurrent use so
// that one user's poll loop never blocks another user's dialogue.
type ISearchSessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, userID int64) (*store.Session, bool, error)
	Delete(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int, error)
}

package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bagassaputradewa/Telegram-Bot/pkg/store"
)

// SessionRepository keeps search sessions in process memory. Sessions do
// not survive a restart; the expiration acts as garbage collection for
// dialogues the user walked away from.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, purging expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	// Store a copy so later mutations of the caller's struct cannot leak
	// into other readers: every Get hands out its own copy too.
	copied := *session
	r.cache.Set(key(session.UserID), &copied, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, userID int64) (*store.Session, bool, error) {
	if x, found := r.cache.Get(key(userID)); found {
		copied := *x.(*store.Session)
		return &copied, true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, userID int64) error {
	r.cache.Delete(key(userID))
	return nil
}

func (r *SessionRepository) Count(_ context.Context) (int, error) {
	return r.cache.ItemCount(), nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

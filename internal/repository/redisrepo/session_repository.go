package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bagassaputradewa/Telegram-Bot/pkg/store"
)

const keyPrefix = "search_session:"

// SessionRepository stores search sessions in Redis so session state can
// live outside the bot process. It satisfies the same contract as the
// in-memory repository and is selected via SESSION_BACKEND=redis.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    1 * time.Hour,
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := r.client.Set(ctx, key(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID int64) (*store.Session, bool, error) {
	data, err := r.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetching session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false, fmt.Errorf("unmarshaling session: %w", err)
	}
	return &session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scanning sessions: %w", err)
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

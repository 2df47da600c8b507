package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bagassaputradewa/Telegram-Bot/internal/constant"
	"github.com/bagassaputradewa/Telegram-Bot/internal/dto"
	"github.com/bagassaputradewa/Telegram-Bot/internal/pkg/logger"
	"github.com/bagassaputradewa/Telegram-Bot/internal/repository/contract"
	"github.com/bagassaputradewa/Telegram-Bot/pkg/store"
)

// ErrSessionExpired is returned when a selection event arrives for a user
// with no active session (expired or never started).
var ErrSessionExpired = errors.New("search session expired")

// ISessionService drives the interactive search dialogue: type selection,
// query input, and the hand-off to search execution.
type ISessionService interface {
	Begin(ctx context.Context, userID, chatID int64) error
	SelectType(ctx context.Context, userID, chatID int64, messageID int, searchType string) error
	HandleText(ctx context.Context, userID, chatID int64, text string) (bool, error)
	Abandon(ctx context.Context, userID int64)
	ActiveSessions(ctx context.Context) int
}

type sessionService struct {
	sessions  contract.ISearchSessionRepository
	publisher IPublisherService
	search    ISearchService
	log       logger.ILogger
	locks     userLocks
}

func NewSessionService(
	sessions contract.ISearchSessionRepository,
	publisher IPublisherService,
	search ISearchService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessions:  sessions,
		publisher: publisher,
		search:    search,
		log:       log,
	}
}

// userLocks serializes session transitions per user. Updates are handled
// on independent goroutines, so without this two messages from the same
// user could both pass a step check and start two searches.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Begin starts a fresh dialogue at the type-selection step. An existing
// session for the user is overwritten: last write wins.
func (s *sessionService) Begin(ctx context.Context, userID, chatID int64) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	session := store.NewSession(userID, chatID)
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	s.log.Info("session", "Search dialogue started", map[string]interface{}{
		"user_id": userID,
	})

	return s.publisher.SendMenu(ctx, chatID, constant.SearchMenuMessage, menuOptions())
}

// SelectType records the chosen search type and advances to query input.
// Without an active session it surfaces the expired notice and creates no
// state.
func (s *sessionService) SelectType(ctx context.Context, userID, chatID int64, messageID int, searchType string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	session, found, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetching session: %w", err)
	}
	if !found {
		s.log.Warn("session", "Type selected with no active session", map[string]interface{}{
			"user_id": userID,
		})
		if err := s.publisher.EditText(ctx, chatID, messageID, constant.SessionExpiredMessage); err != nil {
			return err
		}
		return ErrSessionExpired
	}

	if session.Step == store.StepSearching {
		// A stale menu press must not revive a dialogue whose search is
		// already running.
		s.log.Warn("session", "Type selected while a search is running", map[string]interface{}{
			"user_id": userID,
		})
		return nil
	}

	session.SearchType = searchType
	session.Step = store.StepAwaitingQuery
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	s.log.Info("session", "Search type selected", map[string]interface{}{
		"user_id":     userID,
		"search_type": searchType,
	})

	prompt := fmt.Sprintf(
		"✅ Search type set to: %s\n\n💬 What do you want to search for?\n\n%s\n\n📝 Reply with your search query:",
		searchType, constant.QueryExamples,
	)
	return s.publisher.EditText(ctx, chatID, messageID, prompt)
}

// HandleText consumes a free-text message for a user who is mid-dialogue.
// It reports false when the user has no active session, in which case the
// caller is free to apply its default message behavior.
func (s *sessionService) HandleText(ctx context.Context, userID, chatID int64, text string) (bool, error) {
	session, handled, err := s.acceptQuery(ctx, userID, text)
	if err != nil || session == nil {
		return handled, err
	}

	s.log.Info("session", "Query received, starting search", map[string]interface{}{
		"user_id": userID,
		"query":   text,
	})

	if err := s.publisher.SendText(ctx, chatID, constant.SearchStartingMessage); err != nil {
		return true, err
	}

	s.search.Execute(ctx, session)
	return true, nil
}

// acceptQuery performs the AWAITING_QUERY -> SEARCHING transition under
// the user's lock. Only one of several concurrent messages can win the
// transition; the rest see SEARCHING and are swallowed. The returned
// session is the caller's to run a search with, outside the lock.
func (s *sessionService) acceptQuery(ctx context.Context, userID int64, text string) (*store.Session, bool, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	session, found, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("fetching session: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	if session.Step != store.StepAwaitingQuery {
		// Mid-dialogue chatter outside the query step is swallowed.
		return nil, true, nil
	}

	session.Query = text
	session.Step = store.StepSearching
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, true, fmt.Errorf("saving session: %w", err)
	}
	return session, true, nil
}

// Abandon drops the user's session, if any. Issuing an unrelated command
// mid-dialogue lands here.
func (s *sessionService) Abandon(ctx context.Context, userID int64) {
	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.log.Warn("session", "Failed to delete session", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func (s *sessionService) ActiveSessions(ctx context.Context) int {
	count, err := s.sessions.Count(ctx)
	if err != nil {
		s.log.Warn("session", "Failed to count sessions", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}
	return count
}

func menuOptions() []dto.MenuOption {
	options := make([]dto.MenuOption, 0, len(constant.SearchTypeOptions))
	for _, opt := range constant.SearchTypeOptions {
		options = append(options, dto.MenuOption{Label: opt.Label, Data: opt.Data})
	}
	return options
}

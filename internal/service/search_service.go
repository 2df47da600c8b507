package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bagassaputradewa/Telegram-Bot/internal/pkg/logger"
	"github.com/bagassaputradewa/Telegram-Bot/internal/repository/contract"
	"github.com/bagassaputradewa/Telegram-Bot/pkg/gopher"
	"github.com/bagassaputradewa/Telegram-Bot/pkg/render"
	"github.com/bagassaputradewa/Telegram-Bot/pkg/store"
)

// SearchClient is the slice of the Gopher API the polling engine needs.
// *gopher.Client satisfies it; tests script it.
type SearchClient interface {
	StartSearch(ctx context.Context, platform, searchType, query string, maxResults int) (string, error)
	FetchResult(ctx context.Context, jobID string) ([]byte, int, error)
}

// ISearchService executes one remote search end to end: initiation, the
// poll loop, rendering, and delivery. Every terminal path — success or
// any failure — reports to the user and deletes the session.
type ISearchService interface {
	Execute(ctx context.Context, session *store.Session)
}

// SearchOptions tunes the poll loop. Zero values fall back to the
// defaults the Gopher API is known to work well with.
type SearchOptions struct {
	MaxResults int
	MaxRetries int
	RetryDelay time.Duration
	ChunkPause time.Duration
}

const (
	defaultMaxResults = 5
	defaultMaxRetries = 10
	defaultRetryDelay = 2 * time.Second
	defaultChunkPause = 500 * time.Millisecond
)

type searchService struct {
	client    SearchClient
	sessions  contract.ISearchSessionRepository
	publisher IPublisherService
	log       logger.ILogger
	opts      SearchOptions
}

func NewSearchService(
	client SearchClient,
	sessions contract.ISearchSessionRepository,
	publisher IPublisherService,
	log logger.ILogger,
	opts SearchOptions,
) ISearchService {
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.ChunkPause <= 0 {
		opts.ChunkPause = defaultChunkPause
	}
	return &searchService{
		client:    client,
		sessions:  sessions,
		publisher: publisher,
		log:       log,
		opts:      opts,
	}
}

func (s *searchService) Execute(ctx context.Context, session *store.Session) {
	// No session survives a concluded search, whatever the outcome.
	defer func() {
		if err := s.sessions.Delete(ctx, session.UserID); err != nil {
			s.log.Warn("search", "Failed to delete session", map[string]interface{}{
				"user_id": session.UserID,
				"error":   err.Error(),
			})
		}
	}()

	s.log.Info("search", "Starting search", map[string]interface{}{
		"user_id":     session.UserID,
		"search_type": session.SearchType,
		"query":       session.Query,
	})

	jobID, err := s.client.StartSearch(ctx, session.Platform, session.SearchType, session.Query, s.opts.MaxResults)
	if err != nil {
		s.report(ctx, session, err)
		return
	}

	s.notify(ctx, session.ChatID, fmt.Sprintf(
		"⏳ Search initiated successfully!\n\n🆔 Search ID: %s...\n\nFetching results...",
		prefix(jobID, 8),
	))

	s.poll(ctx, session, jobID)
}

func (s *searchService) poll(ctx context.Context, session *store.Session, jobID string) {
	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		body, status, err := s.client.FetchResult(ctx, jobID)
		if err != nil {
			// Transport faults abort the whole operation; they are not
			// themselves retried.
			s.report(ctx, session, err)
			return
		}

		if status != http.StatusOK {
			s.log.Warn("search", "Result fetch returned non-success status", map[string]interface{}{
				"job_id":  jobID,
				"status":  status,
				"attempt": attempt,
			})
			if attempt < s.opts.MaxRetries {
				if !sleepCtx(ctx, s.opts.RetryDelay) {
					return
				}
				continue
			}
			s.report(ctx, session, &gopher.PollExhaustedError{Attempts: s.opts.MaxRetries, LastStatus: status})
			return
		}

		result := gopher.Decode(body)
		switch result.Outcome {
		case gopher.OutcomeReady:
			s.deliver(ctx, session, result)
			return

		case gopher.OutcomeEmpty, gopher.OutcomePending:
			// An empty collection is indistinguishable from "still
			// computing", so both wait out the retry budget.
			if attempt < s.opts.MaxRetries {
				s.notify(ctx, session.ChatID, fmt.Sprintf("⏳ Processing... (%d/%d)", attempt, s.opts.MaxRetries))
				if !sleepCtx(ctx, s.opts.RetryDelay) {
					return
				}
				continue
			}
			s.report(ctx, session, &gopher.TimeoutError{JobID: jobID})
			return

		case gopher.OutcomeFailed:
			s.report(ctx, session, &gopher.SearchFailedError{Reason: result.Reason})
			return
		}
	}
}

func (s *searchService) deliver(ctx context.Context, session *store.Session, result gopher.CanonicalResult) {
	report := render.BuildReport(render.Params{
		SearchType: session.SearchType,
		Query:      session.Query,
		Platform:   session.Platform,
	}, result)

	chunks := render.SplitChunks(report, render.MaxChunkSize)
	for i, chunk := range chunks {
		if i > 0 {
			// Short pause between chunks keeps us under the transport's
			// outbound rate limit.
			if !sleepCtx(ctx, s.opts.ChunkPause) {
				return
			}
		}
		s.notify(ctx, session.ChatID, chunk)
	}

	s.log.Info("search", "Search completed", map[string]interface{}{
		"user_id": session.UserID,
		"items":   len(result.Items),
		"chunks":  len(chunks),
	})
}

// report surfaces a terminal error to the user as a descriptive message.
func (s *searchService) report(ctx context.Context, session *store.Session, err error) {
	s.log.Error("search", "Search terminated with error", map[string]interface{}{
		"user_id": session.UserID,
		"error":   err.Error(),
	})
	s.notify(ctx, session.ChatID, userMessage(err))
}

func (s *searchService) notify(ctx context.Context, chatID int64, text string) {
	if err := s.publisher.SendText(ctx, chatID, text); err != nil {
		s.log.Warn("search", "Failed to publish notification", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func userMessage(err error) string {
	var (
		initErr    *gopher.InitiationError
		apiErr     *gopher.APIError
		netErr     *gopher.NetworkError
		timeoutErr *gopher.TimeoutError
		pollErr    *gopher.PollExhaustedError
		failedErr  *gopher.SearchFailedError
	)

	switch {
	case errors.As(err, &initErr):
		return fmt.Sprintf("❌ API ERROR %d\n\nResponse: %s", initErr.StatusCode, initErr.Body)

	case errors.As(err, &apiErr):
		return fmt.Sprintf("❌ API Error\n\nError: %s\n\nPlease try again or contact support.", apiErr.Message)

	case errors.Is(err, gopher.ErrMalformedResponse):
		return "❌ Invalid API response (no UUID)\n\nPlease try again later."

	case errors.As(err, &timeoutErr):
		return fmt.Sprintf(
			"⚠️ Search is taking longer than expected.\n\n🆔 UUID: %s\n\nThe search may still be processing. Please try again in a few moments.",
			timeoutErr.JobID,
		)

	case errors.As(err, &pollErr):
		return fmt.Sprintf("❌ Failed to get results after %d attempts\n\nStatus: %d", pollErr.Attempts, pollErr.LastStatus)

	case errors.As(err, &failedErr):
		return fmt.Sprintf(
			"❌ Search Failed\n\nError: %s\n\nPlease try again or use different search parameters.",
			failedErr.Reason,
		)

	case errors.As(err, &netErr):
		return fmt.Sprintf("❌ Network error: %v", netErr.Err)

	default:
		return fmt.Sprintf("❌ Unexpected error: %v\n\nPlease try again or contact support.", err)
	}
}

// sleepCtx waits for d, returning false if the context was cancelled
// first. The select keeps the wait from ever blocking another user's
// flow.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

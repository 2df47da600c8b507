package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagassaputradewa/Telegram-Bot/internal/constant"
	"github.com/bagassaputradewa/Telegram-Bot/internal/repository/memory"
	"github.com/bagassaputradewa/Telegram-Bot/pkg/store"
)

type recordingSearch struct {
	mu       sync.Mutex
	executed []*store.Session
}

func (s *recordingSearch) Execute(_ context.Context, session *store.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.executed = append(s.executed, &copied)
}

func newSessionFixture() (*memory.SessionRepository, *recordingPublisher, *recordingSearch, ISessionService) {
	sessions := memory.NewSessionRepository()
	publisher := &recordingPublisher{}
	search := &recordingSearch{}
	svc := NewSessionService(sessions, publisher, search, nopLogger{})
	return sessions, publisher, search, svc
}

func TestBeginCreatesSessionAndSendsMenu(t *testing.T) {
	ctx := context.Background()
	sessions, publisher, _, svc := newSessionFixture()

	require.NoError(t, svc.Begin(ctx, 42, 100))

	session, found, err := sessions.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.StepAwaitingType, session.Step)
	assert.Equal(t, store.PlatformTwitter, session.Platform)

	msgs := publisher.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(100), msgs[0].ChatID)
	assert.Len(t, msgs[0].Menu, len(constant.SearchTypeOptions))
}

func TestBeginOverwritesExistingSession(t *testing.T) {
	ctx := context.Background()
	sessions, _, _, svc := newSessionFixture()

	require.NoError(t, svc.Begin(ctx, 42, 100))
	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "getprofile"))
	require.NoError(t, svc.Begin(ctx, 42, 100))

	session, found, err := sessions.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.StepAwaitingType, session.Step, "a fresh /search restarts the dialogue")
	assert.Empty(t, session.SearchType)

	count, err := sessions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "at most one session per user")
}

func TestSelectTypeAdvancesToQueryStep(t *testing.T) {
	ctx := context.Background()
	sessions, publisher, _, svc := newSessionFixture()

	require.NoError(t, svc.Begin(ctx, 42, 100))
	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "searchbyquery"))

	session, found, err := sessions.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.StepAwaitingQuery, session.Step)
	assert.Equal(t, "searchbyquery", session.SearchType)

	msgs := publisher.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, 7, msgs[1].MessageID)
	assert.Contains(t, msgs[1].Text, "✅ Search type set to: searchbyquery")
	assert.Contains(t, msgs[1].Text, "Reply with your search query")
}

func TestSelectTypeWithoutSession(t *testing.T) {
	ctx := context.Background()
	sessions, publisher, _, svc := newSessionFixture()

	err := svc.SelectType(ctx, 42, 100, 7, "searchbyquery")
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, found, getErr := sessions.Get(ctx, 42)
	require.NoError(t, getErr)
	assert.False(t, found, "an expired selection must not create state")

	msgs := publisher.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, constant.SessionExpiredMessage, msgs[0].Text)
}

func TestHandleTextStartsSearch(t *testing.T) {
	ctx := context.Background()
	_, publisher, search, svc := newSessionFixture()

	require.NoError(t, svc.Begin(ctx, 42, 100))
	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "getprofile"))

	handled, err := svc.HandleText(ctx, 42, 100, "gopher_ai")
	require.NoError(t, err)
	assert.True(t, handled)

	require.Len(t, search.executed, 1)
	executed := search.executed[0]
	assert.Equal(t, "getprofile", executed.SearchType)
	assert.Equal(t, "gopher_ai", executed.Query)
	assert.Equal(t, store.StepSearching, executed.Step)

	msgs := publisher.all()
	last := msgs[len(msgs)-1]
	assert.Equal(t, constant.SearchStartingMessage, last.Text)
}

func TestHandleTextWithoutSession(t *testing.T) {
	ctx := context.Background()
	_, publisher, search, svc := newSessionFixture()

	handled, err := svc.HandleText(ctx, 42, 100, "hello there")
	require.NoError(t, err)
	assert.False(t, handled, "free text outside a dialogue falls through to the default handler")
	assert.Empty(t, search.executed)
	assert.Empty(t, publisher.all())
}

func TestHandleTextSwallowedOutsideQueryStep(t *testing.T) {
	ctx := context.Background()
	_, _, search, svc := newSessionFixture()

	require.NoError(t, svc.Begin(ctx, 42, 100))

	handled, err := svc.HandleText(ctx, 42, 100, "premature text")
	require.NoError(t, err)
	assert.True(t, handled, "mid-dialogue chatter is consumed, not echoed")
	assert.Empty(t, search.executed)
}

func TestSelectTypeIgnoredWhileSearching(t *testing.T) {
	ctx := context.Background()
	sessions, publisher, _, svc := newSessionFixture()

	session := store.NewSession(42, 100)
	session.SearchType = "searchbyquery"
	session.Query = "golang"
	session.Step = store.StepSearching
	require.NoError(t, sessions.Save(ctx, session))

	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "gettrends"))

	got, found, err := sessions.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.StepSearching, got.Step, "a running search must not be rewound")
	assert.Equal(t, "searchbyquery", got.SearchType)
	assert.Empty(t, publisher.all())
}

func TestConcurrentQueriesStartOneSearch(t *testing.T) {
	ctx := context.Background()
	_, _, search, svc := newSessionFixture()

	require.NoError(t, svc.Begin(ctx, 42, 100))
	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "searchbyquery"))

	var wg sync.WaitGroup
	for _, text := range []string{"first query", "second query"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			handled, err := svc.HandleText(ctx, 42, 100, text)
			assert.NoError(t, err)
			assert.True(t, handled)
		}(text)
	}
	wg.Wait()

	require.Len(t, search.executed, 1, "only one of two simultaneous queries may start a search")
}

func TestStaleCallbackDuringRunningSearch(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	publisher := &recordingPublisher{}
	client := &scriptedClient{
		jobID: "abc123def456",
		polls: []pollResponse{
			{body: `{"status":"pending"}`},
			{body: `{"status":"pending"}`},
			{body: `[{"content":"hello"}]`},
		},
	}
	opts := fastOptions()
	opts.RetryDelay = 50 * time.Millisecond
	searchSvc := NewSearchService(client, sessions, publisher, nopLogger{}, opts)
	svc := NewSessionService(sessions, publisher, searchSvc, nopLogger{})

	require.NoError(t, svc.Begin(ctx, 42, 100))
	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "searchbyquery"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		handled, err := svc.HandleText(ctx, 42, 100, "golang")
		assert.NoError(t, err)
		assert.True(t, handled)
	}()

	// Wait for the search to be in flight, then replay an old menu press.
	require.Eventually(t, func() bool {
		for _, text := range publisher.texts() {
			if text == constant.SearchStartingMessage {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "gettrends"))

	<-done

	final := publisher.texts()[len(publisher.texts())-1]
	assert.Contains(t, final, "🎯 Type: searchbyquery", "the stale selection must not change the running search")
	for _, msg := range publisher.all() {
		assert.NotContains(t, msg.Text, "Search type set to: gettrends")
	}

	count, err := sessions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAbandonDropsSession(t *testing.T) {
	ctx := context.Background()
	sessions, _, _, svc := newSessionFixture()

	require.NoError(t, svc.Begin(ctx, 42, 100))
	svc.Abandon(ctx, 42)

	_, found, err := sessions.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestActiveSessions(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc := newSessionFixture()

	assert.Equal(t, 0, svc.ActiveSessions(ctx))
	require.NoError(t, svc.Begin(ctx, 1, 10))
	require.NoError(t, svc.Begin(ctx, 2, 20))
	assert.Equal(t, 2, svc.ActiveSessions(ctx))
}

// TestFullSearchFlow walks the whole dialogue against a scripted API:
// /search, type selection, query input, one empty poll, then results.
func TestFullSearchFlow(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository()
	publisher := &recordingPublisher{}
	client := &scriptedClient{
		jobID: "abc123def456",
		polls: []pollResponse{
			{body: `[]`},
			{body: `[{"content":"hello","metadata":{"username":"gopher_ai"}}]`},
		},
	}
	searchSvc := NewSearchService(client, sessions, publisher, nopLogger{}, fastOptions())
	svc := NewSessionService(sessions, publisher, searchSvc, nopLogger{})

	require.NoError(t, svc.Begin(ctx, 42, 100))
	require.NoError(t, svc.SelectType(ctx, 42, 100, 7, "getprofile"))

	handled, err := svc.HandleText(ctx, 42, 100, "gopher_ai")
	require.NoError(t, err)
	assert.True(t, handled)

	texts := publisher.texts()
	assert.Contains(t, texts, "⏳ Processing... (1/10)")

	final := texts[len(texts)-1]
	assert.Contains(t, final, "✅ SEARCH COMPLETED")
	assert.Contains(t, final, "🎯 Type: getprofile")
	assert.Contains(t, final, "hello")
	assert.Contains(t, final, "@gopher_ai")

	count, err := sessions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "the flow must end with no session left behind")
}

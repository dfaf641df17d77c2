package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/etymograph/moderation/internal/auth"
	"github.com/etymograph/moderation/internal/cache"
	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/moderation"
	"github.com/etymograph/moderation/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	testAdmin = &auth.Identity{UserID: "admin-1", Email: "admin@example.com", Admin: true}
	testUser  = &auth.Identity{UserID: "user-1", Email: "user@example.com"}

	testResources = model.CrisisResources{
		Hotline:  "988",
		URL:      "https://988lifeline.org",
		TextLine: "Text HOME to 741741",
	}
)

// failingStore wraps a MemoryStore and fails selected operations.
type failingStore struct {
	*store.MemoryStore
	failAlert        bool
	failNotification bool
	failUpsert       bool
	failContent      bool
}

var errBoom = errors.New("boom")

func (f *failingStore) CreateCrisisAlert(ctx context.Context, a *model.CrisisAlert) error {
	if f.failAlert {
		return errBoom
	}
	return f.MemoryStore.CreateCrisisAlert(ctx, a)
}

func (f *failingStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	if f.failNotification {
		return errBoom
	}
	return f.MemoryStore.CreateNotification(ctx, n)
}

func (f *failingStore) UpsertRecord(ctx context.Context, rec *model.ModerationRecord) error {
	if f.failUpsert {
		return errBoom
	}
	return f.MemoryStore.UpsertRecord(ctx, rec)
}

func (f *failingStore) UpdateContent(ctx context.Context, id string, u store.ContentUpdate) error {
	if f.failContent {
		return errBoom
	}
	return f.MemoryStore.UpdateContent(ctx, id, u)
}

type testEnv struct {
	svc   *Service
	store *failingStore
	clock time.Time
}

func newTestEnv(t *testing.T, withClaims bool) *testEnv {
	t.Helper()

	st := &failingStore{MemoryStore: store.NewMemoryStore()}

	var claims Claimer
	if withClaims {
		claims = cache.NewMemoryCache(128, time.Hour)
	}

	env := &testEnv{
		store: st,
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = New(zaptest.NewLogger(t), st, moderation.NewClassifier(moderation.DefaultLexicon()), claims, Config{
		CrisisResources: testResources,
		CrisisDedupTTL:  time.Hour,
	})

	ids := 0
	env.svc.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	env.svc.now = func() time.Time {
		env.clock = env.clock.Add(time.Second)
		return env.clock
	}
	return env
}

// putContent creates a visible, unmoderated content item as the authoring
// service would.
func (e *testEnv) putContent(id, authorID, body string) {
	e.store.PutContent(model.Content{ID: id, AuthorID: authorID, Body: body, Visible: true})
}

func (e *testEnv) ingest(t *testing.T, id, authorID, body string) error {
	t.Helper()
	e.putContent(id, authorID, body)
	return e.svc.Ingest(context.Background(), ContentEvent{
		ContentID: id,
		Document:  map[string]interface{}{"body": body, "authorId": authorID},
	})
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, status.Code(err), "unexpected error: %v", err)
}

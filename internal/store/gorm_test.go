package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/etymograph/moderation/internal/database"
	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testGormStore(t *testing.T) *GormStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	// every connection to :memory: is its own database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	return NewGormStore(db)
}

func testRecord(id string, severity moderation.Severity, createdAt time.Time) *model.ModerationRecord {
	return &model.ModerationRecord{
		ContentID:         id,
		AuthorID:          "author-" + id,
		TextSnippet:       "text for " + id,
		FlaggedCategories: model.Categories{moderation.CategorySpam},
		Severity:          severity,
		Status:            model.StatusPending,
		CreatedAt:         createdAt,
	}
}

func TestGormStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := testGormStore(t)

	first := testRecord("c1", moderation.SeverityLow, time.Now().Add(-time.Hour))
	require.NoError(t, s.UpsertRecord(ctx, first))

	second := testRecord("c1", moderation.SeverityCritical, time.Now())
	second.FlaggedCategories = model.Categories{moderation.CategorySelfHarm, moderation.CategorySpam}
	second.TextSnippet = "replaced"
	require.NoError(t, s.UpsertRecord(ctx, second))

	got, err := s.GetRecord(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got.TextSnippet)
	assert.Equal(t, moderation.SeverityCritical, got.Severity)
	assert.Equal(t, model.Categories{moderation.CategorySelfHarm, moderation.CategorySpam}, got.FlaggedCategories)

	_, total, err := s.ListRecords(ctx, QueueFilter{Status: model.StatusPending, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestGormStoreGetRecordNotFound(t *testing.T) {
	s := testGormStore(t)

	_, err := s.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreTransition(t *testing.T) {
	ctx := context.Background()
	s := testGormStore(t)
	require.NoError(t, s.UpsertRecord(ctx, testRecord("c1", moderation.SeverityLow, time.Now())))

	reviewedAt := time.Now().UTC().Truncate(time.Second)
	err := s.TransitionRecord(ctx, "c1", Transition{
		Status:     model.StatusRejected,
		ReviewedBy: "admin-1",
		Reason:     "spam",
		ReviewedAt: reviewedAt,
	})
	require.NoError(t, err)

	got, err := s.GetRecord(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Equal(t, "admin-1", got.ReviewedBy)
	assert.Equal(t, "spam", got.ReviewReason)
	require.NotNil(t, got.ReviewedAt)
	assert.True(t, reviewedAt.Equal(*got.ReviewedAt))

	err = s.TransitionRecord(ctx, "c1", Transition{Status: model.StatusApproved, ReviewedBy: "admin-2"})
	var notPending *NotPendingError
	require.ErrorAs(t, err, &notPending)
	assert.Equal(t, model.StatusRejected, notPending.Status)

	err = s.TransitionRecord(ctx, "missing", Transition{Status: model.StatusApproved})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreConcurrentTransition(t *testing.T) {
	ctx := context.Background()
	s := testGormStore(t)
	require.NoError(t, s.UpsertRecord(ctx, testRecord("c1", moderation.SeverityLow, time.Now())))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.TransitionRecord(ctx, "c1", Transition{
				Status:     model.StatusApproved,
				ReviewedBy: fmt.Sprintf("admin-%d", i),
				ReviewedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var notPending *NotPendingError
		assert.ErrorAs(t, err, &notPending)
	}
	assert.Equal(t, 1, succeeded)
}

func TestGormStoreListRecords(t *testing.T) {
	ctx := context.Background()
	s := testGormStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		severity := moderation.SeverityLow
		if i%2 == 0 {
			severity = moderation.SeverityHigh
		}
		rec := testRecord(fmt.Sprintf("c%d", i), severity, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.UpsertRecord(ctx, rec))
	}
	require.NoError(t, s.TransitionRecord(ctx, "c4", Transition{Status: model.StatusApproved, ReviewedAt: time.Now()}))

	items, total, err := s.ListRecords(ctx, QueueFilter{Status: model.StatusPending, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, items, 2)
	assert.Equal(t, "c3", items[0].ContentID)
	assert.Equal(t, "c2", items[1].ContentID)

	items, total, err = s.ListRecords(ctx, QueueFilter{Status: model.StatusPending, Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, items, 1)
	assert.Equal(t, "c0", items[0].ContentID)

	items, total, err = s.ListRecords(ctx, QueueFilter{Status: model.StatusPending, Severity: moderation.SeverityHigh, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "c2", items[0].ContentID)
	assert.Equal(t, "c0", items[1].ContentID)

	items, total, err = s.ListRecords(ctx, QueueFilter{Status: model.StatusApproved, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "c4", items[0].ContentID)
}

func TestGormStoreContent(t *testing.T) {
	ctx := context.Background()
	s := testGormStore(t)

	err := s.UpdateContent(ctx, "missing", ContentUpdate{Moderated: true})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.db.Create(&model.Content{ID: "p1", AuthorID: "u1", Body: "hello", Visible: true}).Error)

	err = s.UpdateContent(ctx, "p1", ContentUpdate{
		Moderated:        true,
		Visible:          false,
		ModerationResult: map[string]interface{}{"flagged": true, "severity": "high"},
	})
	require.NoError(t, err)

	got, err := s.GetContent(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.Moderated)
	assert.False(t, got.Visible)
	assert.Equal(t, true, got.ModerationResult["flagged"])
	assert.Equal(t, "high", got.ModerationResult["severity"])
	assert.Equal(t, "hello", got.Body)

	_, err = s.GetContent(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := testGormStore(t)

	alert := &model.CrisisAlert{
		ID:          "a1",
		AuthorID:    "u1",
		ContentID:   "p1",
		TextSnippet: "snippet",
		Resources:   model.CrisisResources{Hotline: "988", URL: "https://988lifeline.org", TextLine: "Text HOME to 741741"},
		Status:      model.CrisisStatusUnresolved,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, s.CreateCrisisAlert(ctx, alert))

	var stored model.CrisisAlert
	require.NoError(t, s.db.First(&stored, "id = ?", "a1").Error)
	assert.Equal(t, "988", stored.Resources.Hotline)
	assert.Equal(t, model.CrisisStatusUnresolved, stored.Status)

	n := &model.Notification{
		ID:     "n1",
		UserID: "u1",
		Type:   model.NotificationCrisisResources,
		Title:  "title",
		Data:   map[string]interface{}{"contentId": "p1"},
	}
	require.NoError(t, s.CreateNotification(ctx, n))

	var count int64
	s.db.Model(&model.Notification{}).Where("user_id = ?", "u1").Count(&count)
	assert.EqualValues(t, 1, count)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/moderation"
)

// ErrNotFound is returned when a queue record or content item does not exist.
var ErrNotFound = errors.New("not found")

// NotPendingError is returned by TransitionRecord when the record has already
// been reviewed.
type NotPendingError struct {
	Status model.RecordStatus
}

func (e *NotPendingError) Error() string {
	return fmt.Sprintf("moderation record already %s", e.Status)
}

// QueueFilter selects a page of queue records. An empty Severity matches all.
type QueueFilter struct {
	Status   model.RecordStatus
	Severity moderation.Severity
	Limit    int
	Offset   int
}

// Transition is the review decision written onto a pending record.
type Transition struct {
	Status     model.RecordStatus
	ReviewedBy string
	Reason     string
	ReviewedAt time.Time
}

// ContentUpdate carries the only content fields moderation may change.
type ContentUpdate struct {
	Moderated        bool
	Visible          bool
	ModerationResult map[string]interface{}
}

// Store is the persistence boundary of the moderation pipeline.
type Store interface {
	// UpsertRecord writes rec keyed by its content ID, replacing any prior record.
	UpsertRecord(ctx context.Context, rec *model.ModerationRecord) error
	GetRecord(ctx context.Context, contentID string) (*model.ModerationRecord, error)
	// TransitionRecord applies t only if the record is still pending. It
	// returns ErrNotFound or *NotPendingError when nothing was written.
	TransitionRecord(ctx context.Context, contentID string, t Transition) error
	// ListRecords returns one page ordered by creation time, newest first,
	// and the number of records matching the filter before paging.
	ListRecords(ctx context.Context, f QueueFilter) ([]model.ModerationRecord, int64, error)

	GetContent(ctx context.Context, id string) (*model.Content, error)
	UpdateContent(ctx context.Context, id string, u ContentUpdate) error

	CreateCrisisAlert(ctx context.Context, alert *model.CrisisAlert) error
	CreateNotification(ctx context.Context, n *model.Notification) error
}

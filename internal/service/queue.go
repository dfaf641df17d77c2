package service

import (
	"context"

	"github.com/etymograph/moderation/internal/auth"
	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/moderation"
	"github.com/etymograph/moderation/internal/store"
	"go.uber.org/zap"
)

const (
	DefaultQueueLimit = 20
	MaxQueueLimit     = 100
)

// QueueQuery holds the raw listing parameters. Nil Limit or Offset means the
// caller did not supply one.
type QueueQuery struct {
	Limit    *int
	Offset   *int
	Status   string
	Severity string
}

type QueuePage struct {
	Items  []model.ModerationRecord `json:"items"`
	Total  int64                    `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

// ListQueue returns one page of queue records, newest first. Total counts
// every record matching the filters, not just the page.
func (s *Service) ListQueue(ctx context.Context, caller *auth.Identity, q QueueQuery) (*QueuePage, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	limit := DefaultQueueLimit
	if q.Limit != nil {
		limit = min(max(*q.Limit, 1), MaxQueueLimit)
	}
	offset := 0
	if q.Offset != nil {
		offset = max(*q.Offset, 0)
	}

	recordStatus := model.StatusPending
	if q.Status != "" {
		recordStatus = model.RecordStatus(q.Status)
		if !recordStatus.Valid() {
			return nil, invalidArgument("invalid status %q: must be pending, approved or rejected", q.Status)
		}
	}

	severity := moderation.Severity(q.Severity)
	if severity != "" && !severity.Valid() {
		return nil, invalidArgument("invalid severity %q: must be low, medium, high or critical", q.Severity)
	}

	items, total, err := s.store.ListRecords(ctx, store.QueueFilter{
		Status:   recordStatus,
		Severity: severity,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, s.internalError("failed to list moderation queue", err, zap.String("status", string(recordStatus)))
	}

	return &QueuePage{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

package store

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/etymograph/moderation/internal/model"
)

// MemoryStore keeps everything in process memory. It is used in tests and
// for running the service without a database.
type MemoryStore struct {
	mu            sync.Mutex
	records       map[string]model.ModerationRecord
	content       map[string]model.Content
	alerts        []model.CrisisAlert
	notifications []model.Notification

	// BeforeTransition, when set, runs before TransitionRecord takes the lock.
	BeforeTransition func(contentID string)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]model.ModerationRecord),
		content: make(map[string]model.Content),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) UpsertRecord(ctx context.Context, rec *model.ModerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	cp.FlaggedCategories = append(model.Categories{}, rec.FlaggedCategories...)
	s.records[rec.ContentID] = cp
	return nil
}

func (s *MemoryStore) GetRecord(ctx context.Context, contentID string) (*model.ModerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[contentID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) TransitionRecord(ctx context.Context, contentID string, t Transition) error {
	if s.BeforeTransition != nil {
		s.BeforeTransition(contentID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[contentID]
	if !ok {
		return ErrNotFound
	}
	if rec.Status != model.StatusPending {
		return &NotPendingError{Status: rec.Status}
	}

	reviewedAt := t.ReviewedAt
	rec.Status = t.Status
	rec.ReviewedAt = &reviewedAt
	rec.ReviewedBy = t.ReviewedBy
	rec.ReviewReason = t.Reason
	s.records[contentID] = rec
	return nil
}

func (s *MemoryStore) ListRecords(ctx context.Context, f QueueFilter) ([]model.ModerationRecord, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.ModerationRecord, 0)
	for _, rec := range s.records {
		if rec.Status != f.Status {
			continue
		}
		if f.Severity != "" && rec.Severity != f.Severity {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ContentID < matched[j].ContentID
	})

	total := int64(len(matched))
	start := min(f.Offset, len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

func (s *MemoryStore) GetContent(ctx context.Context, id string) (*model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.content[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.ModerationResult = maps.Clone(c.ModerationResult)
	return &c, nil
}

func (s *MemoryStore) UpdateContent(ctx context.Context, id string, u ContentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.content[id]
	if !ok {
		return ErrNotFound
	}
	c.Moderated = u.Moderated
	c.Visible = u.Visible
	c.ModerationResult = maps.Clone(u.ModerationResult)
	s.content[id] = c
	return nil
}

func (s *MemoryStore) CreateCrisisAlert(ctx context.Context, alert *model.CrisisAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = append(s.alerts, *alert)
	return nil
}

func (s *MemoryStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, *n)
	return nil
}

// PutContent inserts or replaces a content item, standing in for the
// authoring service.
func (s *MemoryStore) PutContent(c model.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.content[c.ID] = c
}

func (s *MemoryStore) CrisisAlerts() []model.CrisisAlert {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.CrisisAlert(nil), s.alerts...)
}

func (s *MemoryStore) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Notification(nil), s.notifications...)
}

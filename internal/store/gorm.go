package store

import (
	"context"
	"errors"

	"github.com/etymograph/moderation/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the Store backed by gorm (Postgres in production, SQLite in tests).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// 재플래그 시 upsert로 덮어쓰는 컬럼 (content_id 제외 전체)
var recordColumns = []string{
	"author_id",
	"text_snippet",
	"flagged_categories",
	"severity",
	"status",
	"created_at",
	"reviewed_at",
	"reviewed_by",
	"review_reason",
}

// UpsertRecord inserts the record or replaces every column of an existing one.
func (s *GormStore) UpsertRecord(ctx context.Context, rec *model.ModerationRecord) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns(recordColumns),
	}).Create(rec).Error
}

func (s *GormStore) GetRecord(ctx context.Context, contentID string) (*model.ModerationRecord, error) {
	var rec model.ModerationRecord
	err := s.db.WithContext(ctx).Where("content_id = ?", contentID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// TransitionRecord writes the review decision only while the record is pending.
// A lost race surfaces as *NotPendingError.
func (s *GormStore) TransitionRecord(ctx context.Context, contentID string, t Transition) error {
	// 조건부 업데이트: pending 상태일 때만 반영
	result := s.db.WithContext(ctx).Model(&model.ModerationRecord{}).
		Where("content_id = ? AND status = ?", contentID, model.StatusPending).
		Updates(map[string]interface{}{
			"status":        t.Status,
			"reviewed_at":   t.ReviewedAt,
			"reviewed_by":   t.ReviewedBy,
			"review_reason": t.Reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the record is gone or someone reviewed it first
	rec, err := s.GetRecord(ctx, contentID)
	if err != nil {
		return err
	}
	return &NotPendingError{Status: rec.Status}
}

// ListRecords returns one page of records plus the total matching the filter.
func (s *GormStore) ListRecords(ctx context.Context, f QueueFilter) ([]model.ModerationRecord, int64, error) {
	filtered := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&model.ModerationRecord{}).Where("status = ?", f.Status)
		if f.Severity != "" {
			query = query.Where("severity = ?", f.Severity)
		}
		return query
	}

	// 전체 개수 (페이지네이션용)
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 최신순, 동률은 content_id 순
	records := make([]model.ModerationRecord, 0)
	err := filtered().
		Order("created_at DESC").
		Order("content_id ASC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *GormStore) GetContent(ctx context.Context, id string) (*model.Content, error) {
	var content model.Content
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *GormStore) UpdateContent(ctx context.Context, id string, u ContentUpdate) error {
	result := s.db.WithContext(ctx).Model(&model.Content{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"moderated":         u.Moderated,
			"visible":           u.Visible,
			"moderation_result": datatypes.JSONMap(u.ModerationResult),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateCrisisAlert(ctx context.Context, alert *model.CrisisAlert) error {
	return s.db.WithContext(ctx).Create(alert).Error
}

func (s *GormStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

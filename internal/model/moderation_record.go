package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/etymograph/moderation/internal/moderation"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type RecordStatus string

// Status constants
const (
	StatusPending  RecordStatus = "pending"
	StatusApproved RecordStatus = "approved"
	StatusRejected RecordStatus = "rejected"
)

func (s RecordStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Categories is the ordered list of matched categories, stored as a JSON array
type Categories []moderation.Category

// Value implements driver.Valuer for JSON serialization
func (c Categories) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]moderation.Category{})
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSON deserialization
func (c *Categories) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*c = Categories{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal Categories: unsupported type")
	}
	return json.Unmarshal(bytes, c)
}

func (Categories) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

// ModerationRecord is the review queue entry for one flagged content item.
// It is keyed by the content ID; re-flagging the same content replaces it.
type ModerationRecord struct {
	ContentID         string              `gorm:"primaryKey;size:128" json:"contentId"`
	AuthorID          string              `gorm:"size:128;index" json:"authorId"`
	TextSnippet       string              `gorm:"type:text" json:"textSnippet"`
	FlaggedCategories Categories          `gorm:"not null" json:"flaggedCategories"`
	Severity          moderation.Severity `gorm:"size:20;not null;index" json:"severity"`
	Status            RecordStatus        `gorm:"size:20;not null;index:idx_queue_status_created,priority:1" json:"status"`
	CreatedAt         time.Time           `gorm:"index:idx_queue_status_created,priority:2,sort:desc" json:"createdAt"`
	ReviewedAt        *time.Time          `json:"reviewedAt"`
	ReviewedBy        string              `gorm:"size:128" json:"reviewedBy"`
	ReviewReason      string              `gorm:"type:text" json:"reviewReason"`
}

func (ModerationRecord) TableName() string {
	return "moderation_queue"
}

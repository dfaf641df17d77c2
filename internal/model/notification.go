package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types
const (
	NotificationCrisisResources = "crisis_resources"
	NotificationContentRejected = "content_rejected"
)

// Notification is an outbound message for a user. Rows are only appended
// here; delivery is handled by a separate sender.
type Notification struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	UserID    string            `gorm:"size:128;not null;index" json:"userId"`
	Type      string            `gorm:"size:40;not null;index" json:"type"`
	Title     string            `gorm:"size:255" json:"title"`
	Body      string            `gorm:"type:text" json:"body"`
	Data      datatypes.JSONMap `json:"data"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `gorm:"index" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

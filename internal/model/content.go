package model

import (
	"time"

	"gorm.io/datatypes"
)

// Content is the user-generated post owned by the authoring service. The
// moderation service only ever writes Moderated, Visible and ModerationResult.
type Content struct {
	ID               string            `gorm:"primaryKey;size:128" json:"id"`
	AuthorID         string            `gorm:"size:128;index" json:"authorId"`
	Body             string            `gorm:"type:text" json:"body"`
	Moderated        bool              `json:"moderated"`
	Visible          bool              `json:"visible"`
	ModerationResult datatypes.JSONMap `json:"moderationResult"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (Content) TableName() string {
	return "content"
}

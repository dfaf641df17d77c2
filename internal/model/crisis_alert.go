package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const CrisisStatusUnresolved = "unresolved"

// CrisisResources is the fixed support payload attached to crisis alerts and
// crisis notifications.
type CrisisResources struct {
	Hotline  string `json:"hotline"`
	URL      string `json:"url"`
	TextLine string `json:"textLine"`
}

func (r CrisisResources) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *CrisisResources) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = CrisisResources{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return errors.New("failed to unmarshal CrisisResources: unsupported type")
}

func (CrisisResources) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

// Map returns the resources as a plain map, for embedding in notification data.
func (r CrisisResources) Map() map[string]interface{} {
	return map[string]interface{}{
		"hotline":  r.Hotline,
		"url":      r.URL,
		"textLine": r.TextLine,
	}
}

type CrisisAlert struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	AuthorID    string          `gorm:"size:128;not null;index" json:"authorId"`
	ContentID   string          `gorm:"size:128;not null;index" json:"contentId"`
	TextSnippet string          `gorm:"type:text" json:"textSnippet"`
	Resources   CrisisResources `json:"resources"`
	Status      string          `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (CrisisAlert) TableName() string {
	return "crisis_alerts"
}

package model

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const idLength = 16

// Task represents a single item in a user's task list.
type Task struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index" json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	IsCompleted bool      `gorm:"default:false" json:"isCompleted"`
	IsImportant bool      `gorm:"default:false" json:"isImportant"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an opaque identifier when none is set.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		id, err := gonanoid.New(idLength)
		if err != nil {
			return fmt.Errorf("generate task id: %w", err)
		}
		t.ID = id
	}
	return nil
}

// dateLayouts lists the accepted calendar date formats, most common first.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate parses a calendar date in YYYY-MM-DD or RFC 3339 form.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
}

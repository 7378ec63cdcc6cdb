package models

import "time"

// Tag represents a lower-cased hashtag extracted from note content
// Table: tags
// Unique by name; color is chosen once when the tag is first created
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uk_tags_name" json:"name"`
	Color     string    `gorm:"size:7;default:'#007bff'" json:"color"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Tag) TableName() string { return "tags" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID    *uint
	Name  *string
	Names []string
}

// TagUsage is a tag together with the number of note links an author holds on it
type TagUsage struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	NoteCount int64     `json:"note_count"`
}

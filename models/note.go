// Package models contains the gorm models persisted by the notes service
package models

import "time"

// Blocked marker values. The column is a string for compatibility with
// existing note tables.
const (
	BlockedTrue  = "true"
	BlockedFalse = "false"
)

// Note represents a free-text note owned by an author
// Table: notes
// Title is derived from content; blocked = "true" marks a soft-deleted note
type Note struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255" json:"title"`
	Content     string    `json:"content"`
	IsFavorite  bool      `gorm:"not null;default:false" json:"is_favorite"`
	IsArchived  bool      `gorm:"not null;default:false" json:"is_archived"`
	IsProcessed bool      `gorm:"not null;default:false" json:"is_processed"`
	Blocked     string    `gorm:"size:10;default:'false';index:idx_notes_author_blocked,priority:2" json:"blocked"`
	Author      string    `gorm:"size:155;index:idx_notes_author_blocked,priority:1" json:"author"`
	SharedWith  string    `gorm:"size:500" json:"shared_with"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;index:idx_notes_updated_at" json:"updated_at"`
}

func (Note) TableName() string { return "notes" }

// IsBlocked reports whether the note has been soft-deleted
func (n Note) IsBlocked() bool { return n.Blocked == BlockedTrue }

// NoteFilter represents filter criteria for note queries
type NoteFilter struct {
	ID      *uint
	Author  *string
	Blocked *string
}

// NoteListQuery holds the listing criteria of an author's notes.
// Tag and Search are ignored when empty.
type NoteListQuery struct {
	Author string
	Tag    string
	Search string
}

package dto

import "time"

// ListNotesRequest filters an author's notes
type ListNotesRequest struct {
	Tag    string `json:"tag" validate:"omitempty,max=100"`
	Search string `json:"search" validate:"omitempty,max=255"`
	Author string `json:"author" validate:"max=155"`
}

// CreateNoteRequest carries the content of a new note.
// Source labels the entry point and is not read from the request.
type CreateNoteRequest struct {
	Content string `json:"content"`
	Author  string `json:"author" validate:"max=155"`
	Source  string `json:"-"`
}

// UpdateNoteRequest replaces the content of an existing note
type UpdateNoteRequest struct {
	ID      uint   `json:"-"`
	Content string `json:"content"`
	Author  string `json:"author" validate:"max=155"`
}

// AddNoteRequest is the remote ingestion shape, read from the query string or the body
type AddNoteRequest struct {
	Note   string `json:"note" form:"note" query:"note"`
	Author string `json:"author" form:"author" query:"author" validate:"max=155"`
}

// ExportNotesRequest selects the notes to export
type ExportNotesRequest struct {
	Author string `json:"author" validate:"max=155"`
}

// NoteDTO is a listed note with its tag names
type NoteDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsFavorite  bool      `json:"is_favorite"`
	IsArchived  bool      `json:"is_archived"`
	IsProcessed bool      `json:"is_processed"`
	Blocked     string    `json:"blocked"`
	Author      string    `json:"author"`
	SharedWith  string    `json:"shared_with"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tags        []string  `json:"tags"`
}

// NoteSummaryResponse is returned by create and update
type NoteSummaryResponse struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// AddNoteResponse is returned by the remote ingestion endpoint
type AddNoteResponse struct {
	ID    uint     `json:"id"`
	Title string   `json:"title"`
	Note  string   `json:"note"`
	Tags  []string `json:"tags"`
}

// NotesExport is a rendered workbook
type NotesExport struct {
	FileName    string
	ContentType string
	Content     []byte
	Rows        int
}

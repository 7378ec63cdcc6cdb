package dto

import "time"

// ListTagsRequest selects the author whose tags are listed
type ListTagsRequest struct {
	Author string `json:"author" validate:"max=155"`
}

// TagDTO is a tag with the number of the author's links to it
type TagDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	NoteCount int64     `json:"note_count"`
}

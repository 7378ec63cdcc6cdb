// Package businessflow contains the note use cases: listing, tagging, creation,
// update, soft deletion and export.
package businessflow

import (
	"strconv"
	"strings"

	"github.com/amirphl/bkm-notes/app/dto"
	"github.com/amirphl/bkm-notes/models"
)

// ClientMetadata holds client-related information for request logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToNoteDTO converts a note model and its tag names to NoteDTO
func ToNoteDTO(note models.Note, tags []string) dto.NoteDTO {
	if tags == nil {
		tags = []string{}
	}
	return dto.NoteDTO{
		ID:          note.ID,
		Title:       note.Title,
		Content:     note.Content,
		IsFavorite:  note.IsFavorite,
		IsArchived:  note.IsArchived,
		IsProcessed: note.IsProcessed,
		Blocked:     note.Blocked,
		Author:      note.Author,
		SharedWith:  note.SharedWith,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
		Tags:        tags,
	}
}

// ToTagDTO converts a tag usage row to TagDTO
func ToTagDTO(usage models.TagUsage) dto.TagDTO {
	return dto.TagDTO{
		ID:        usage.ID,
		Name:      usage.Name,
		Color:     usage.Color,
		CreatedAt: usage.CreatedAt,
		NoteCount: usage.NoteCount,
	}
}

// normalizeAuthor maps a blank author onto the empty author
func normalizeAuthor(author string) string {
	if strings.TrimSpace(author) == "" {
		return ""
	}
	return author
}

// ParseNoteID parses a positive decimal note id taken from a path parameter
func ParseNoteID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, NewBusinessError("INVALID_NOTE_ID", "Invalid note id", ErrInvalidNoteID)
	}
	return uint(id), nil
}

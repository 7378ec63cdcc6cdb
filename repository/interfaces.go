// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/bkm-notes/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// NoteRepository defines operations for notes
type NoteRepository interface {
	Repository[models.Note, models.NoteFilter]
	ListForAuthor(ctx context.Context, query models.NoteListQuery) ([]*models.Note, error)
	UpdateContent(ctx context.Context, id uint, title, content string) error
	MarkBlocked(ctx context.Context, id uint) error
}

// TagRepository defines operations for tags
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	ByName(ctx context.Context, name string) (*models.Tag, error)
	Upsert(ctx context.Context, name, color string) (*models.Tag, error)
	ListUsageByAuthor(ctx context.Context, author string) ([]*models.TagUsage, error)
}

// NoteTagRepository defines operations for note-tag links
type NoteTagRepository interface {
	ByFilter(ctx context.Context, filter models.NoteTagFilter, orderBy string, limit, offset int) ([]*models.NoteTag, error)
	Count(ctx context.Context, filter models.NoteTagFilter) (int64, error)
	Link(ctx context.Context, noteID, tagID uint, author string) error
	DeleteByNote(ctx context.Context, noteID uint) error
	TagNamesByNoteIDs(ctx context.Context, noteIDs []uint) (map[uint][]string, error)
}

package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/bkm-notes/models"
	"gorm.io/gorm"
)

// NoteRepositoryImpl implements NoteRepository interface
type NoteRepositoryImpl struct {
	*BaseRepository[models.Note, models.NoteFilter]
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &NoteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Note, models.NoteFilter](db),
	}
}

// ListForAuthor returns the author's visible notes, most recently updated first.
// Tag restricts the result to notes linked to that tag name; Search matches a
// substring of title or content.
func (r *NoteRepositoryImpl) ListForAuthor(ctx context.Context, q models.NoteListQuery) ([]*models.Note, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Note{}).
		Where("notes.author = ?", q.Author).
		Where("(notes.blocked IS NULL OR notes.blocked <> ?)", models.BlockedTrue)

	if q.Tag != "" {
		tagged := db.Model(&models.NoteTag{}).
			Select("note_tags.note_id").
			Joins("JOIN tags ON tags.id = note_tags.tag_id").
			Where("tags.name = ?", q.Tag)
		query = query.Where("notes.id IN (?)", tagged)
	}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where("(notes.title LIKE ? OR notes.content LIKE ?)", pattern, pattern)
	}

	var rows []*models.Note
	if err := query.Order("notes.updated_at DESC").Order("notes.id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes for author: %w", err)
	}
	return rows, nil
}

// UpdateContent overwrites title and content; updated_at is refreshed by gorm
func (r *NoteRepositoryImpl) UpdateContent(ctx context.Context, id uint, title, content string) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Note{}).
		Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content}).Error
	if err != nil {
		return fmt.Errorf("failed to update note %d: %w", id, err)
	}
	return nil
}

// MarkBlocked soft-deletes a note
func (r *NoteRepositoryImpl) MarkBlocked(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Note{}).
		Where("id = ?", id).
		Update("blocked", models.BlockedTrue).Error
	if err != nil {
		return fmt.Errorf("failed to block note %d: %w", id, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *NoteRepositoryImpl) applyFilter(query *gorm.DB, filter models.NoteFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Author != nil {
		query = query.Where("author = ?", *filter.Author)
	}
	if filter.Blocked != nil {
		query = query.Where("blocked = ?", *filter.Blocked)
	}
	return query
}

// ByFilter retrieves notes based on filter criteria
func (r *NoteRepositoryImpl) ByFilter(ctx context.Context, filter models.NoteFilter, orderBy string, limit, offset int) ([]*models.Note, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Note{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Note
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of notes matching the filter
func (r *NoteRepositoryImpl) Count(ctx context.Context, filter models.NoteFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Note{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any note matching the filter exists
func (r *NoteRepositoryImpl) Exists(ctx context.Context, filter models.NoteFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

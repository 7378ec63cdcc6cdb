package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/bkm-notes/models"
	"gorm.io/gorm"
)

// NoteTagRepositoryImpl implements NoteTagRepository interface
type NoteTagRepositoryImpl struct {
	DB *gorm.DB
}

// NewNoteTagRepository creates a new note-tag link repository
func NewNoteTagRepository(db *gorm.DB) NoteTagRepository {
	return &NoteTagRepositoryImpl{DB: db}
}

// Link attaches a tag to a note on behalf of author
func (r *NoteTagRepositoryImpl) Link(ctx context.Context, noteID, tagID uint, author string) error {
	db := dbFromContext(ctx, r.DB)
	row := models.NoteTag{NoteID: noteID, TagID: tagID, Author: author}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to link note %d to tag %d: %w", noteID, tagID, err)
	}
	return nil
}

// DeleteByNote removes every tag link of a note
func (r *NoteTagRepositoryImpl) DeleteByNote(ctx context.Context, noteID uint) error {
	db := dbFromContext(ctx, r.DB)
	if err := db.Where("note_id = ?", noteID).Delete(&models.NoteTag{}).Error; err != nil {
		return fmt.Errorf("failed to unlink tags of note %d: %w", noteID, err)
	}
	return nil
}

// TagNamesByNoteIDs returns the tag names of each note, sorted by name.
// Notes without tags are absent from the map.
func (r *NoteTagRepositoryImpl) TagNamesByNoteIDs(ctx context.Context, noteIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(noteIDs))
	if len(noteIDs) == 0 {
		return result, nil
	}

	db := dbFromContext(ctx, r.DB)
	var rows []models.NoteTagName
	err := db.Table("note_tags").
		Select("note_tags.note_id AS note_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = note_tags.tag_id").
		Where("note_tags.note_id IN ?", noteIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load note tags: %w", err)
	}

	for _, row := range rows {
		result[row.NoteID] = append(result[row.NoteID], row.Name)
	}
	return result, nil
}

func (r *NoteTagRepositoryImpl) applyFilter(query *gorm.DB, filter models.NoteTagFilter) *gorm.DB {
	if filter.NoteID != nil {
		query = query.Where("note_id = ?", *filter.NoteID)
	}
	if filter.TagID != nil {
		query = query.Where("tag_id = ?", *filter.TagID)
	}
	if filter.Author != nil {
		query = query.Where("author = ?", *filter.Author)
	}
	return query
}

// ByFilter retrieves links based on filter criteria
func (r *NoteTagRepositoryImpl) ByFilter(ctx context.Context, filter models.NoteTagFilter, orderBy string, limit, offset int) ([]*models.NoteTag, error) {
	db := dbFromContext(ctx, r.DB)
	query := r.applyFilter(db.Model(&models.NoteTag{}), filter)

	if orderBy == "" {
		orderBy = "note_id ASC, tag_id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.NoteTag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of links matching the filter
func (r *NoteTagRepositoryImpl) Count(ctx context.Context, filter models.NoteTagFilter) (int64, error) {
	db := dbFromContext(ctx, r.DB)
	query := r.applyFilter(db.Model(&models.NoteTag{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

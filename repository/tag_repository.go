package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/bkm-notes/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepositoryImpl implements TagRepository interface
type TagRepositoryImpl struct {
	*BaseRepository[models.Tag, models.TagFilter]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tag, models.TagFilter](db),
	}
}

// ByName retrieves a tag by name
func (r *TagRepositoryImpl) ByName(ctx context.Context, name string) (*models.Tag, error) {
	db := r.getDB(ctx)
	var row models.Tag
	if err := db.Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert inserts the tag unless the name already exists and returns the stored row.
// An existing tag keeps its original color.
func (r *TagRepositoryImpl) Upsert(ctx context.Context, name, color string) (*models.Tag, error) {
	db := r.getDB(ctx)

	row := models.Tag{Name: name, Color: color}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tag %q: %w", name, err)
	}

	tag, err := r.ByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag %q: %w", name, err)
	}
	if tag == nil {
		return nil, fmt.Errorf("tag %q missing after upsert", name)
	}
	return tag, nil
}

// ListUsageByAuthor returns the tags the author has linked at least once with
// the number of links, most used first and ties broken by name.
func (r *TagRepositoryImpl) ListUsageByAuthor(ctx context.Context, author string) ([]*models.TagUsage, error) {
	db := r.getDB(ctx)

	var rows []*models.TagUsage
	err := db.Table("tags").
		Select("tags.id, tags.name, tags.color, tags.created_at, COUNT(note_tags.note_id) AS note_count").
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.author = ?", author).
		Group("tags.id, tags.name, tags.color, tags.created_at").
		Order("note_count DESC, tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tag usage: %w", err)
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TagRepositoryImpl) applyFilter(query *gorm.DB, filter models.TagFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if len(filter.Names) > 0 {
		query = query.Where("name IN ?", filter.Names)
	}
	return query
}

// ByFilter retrieves tags based on filter criteria
func (r *TagRepositoryImpl) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

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

	var rows []*models.Tag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tags matching the filter
func (r *TagRepositoryImpl) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any tag matching the filter exists
func (r *TagRepositoryImpl) Exists(ctx context.Context, filter models.TagFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

package testing

import (
	"fmt"

	"github.com/amirphl/bkm-notes/models"
	"github.com/amirphl/bkm-notes/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// UniqueAuthor returns an author name no other fixture will use
func UniqueAuthor() string {
	return "author-" + uuid.NewString()[:8]
}

// CreateTestNote inserts a note directly, bypassing tag extraction
func (tf *TestFixtures) CreateTestNote(author, content string) (*models.Note, error) {
	note := &models.Note{
		Title:   utils.DeriveTitle(content),
		Content: content,
		Author:  author,
		Blocked: models.BlockedFalse,
	}
	if err := tf.DB.DB.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to create test note: %w", err)
	}
	return note, nil
}

// CreateBlockedNote inserts a soft-deleted note
func (tf *TestFixtures) CreateBlockedNote(author, content string) (*models.Note, error) {
	note, err := tf.CreateTestNote(author, content)
	if err != nil {
		return nil, err
	}
	if err := tf.DB.DB.Model(note).Update("blocked", models.BlockedTrue).Error; err != nil {
		return nil, fmt.Errorf("failed to block test note: %w", err)
	}
	note.Blocked = models.BlockedTrue
	return note, nil
}

// CreateTestTag inserts a tag with its derived color
func (tf *TestFixtures) CreateTestTag(name string) (*models.Tag, error) {
	tag := &models.Tag{Name: name, Color: utils.TagColor(name)}
	if err := tf.DB.DB.Create(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tag %s: %w", name, err)
	}
	return tag, nil
}

// LinkTestTag links an existing note and tag
func (tf *TestFixtures) LinkTestTag(note *models.Note, tag *models.Tag) error {
	link := &models.NoteTag{NoteID: note.ID, TagID: tag.ID, Author: note.Author}
	if err := tf.DB.DB.Create(link).Error; err != nil {
		return fmt.Errorf("failed to link note %d to tag %s: %w", note.ID, tag.Name, err)
	}
	return nil
}

// CountRows returns the number of rows in the table of model
func (tf *TestFixtures) CountRows(model any) (int64, error) {
	var count int64
	err := tf.DB.DB.Model(model).Count(&count).Error
	return count, err
}

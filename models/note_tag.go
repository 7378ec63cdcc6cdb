package models

// NoteTag links a note to one of its tags
// Table: note_tags
// Composite primary key (note_id, tag_id); rows cascade with either side
type NoteTag struct {
	NoteID uint   `gorm:"primaryKey;autoIncrement:false" json:"note_id"`
	TagID  uint   `gorm:"primaryKey;autoIncrement:false;index:idx_note_tags_tag_id" json:"tag_id"`
	Author string `gorm:"size:155;index:idx_note_tags_author" json:"author"`

	Note *Note `gorm:"foreignKey:NoteID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Tag  *Tag  `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (NoteTag) TableName() string { return "note_tags" }

// NoteTagFilter represents filter criteria for note-tag link queries
type NoteTagFilter struct {
	NoteID *uint
	TagID  *uint
	Author *string
}

// NoteTagName pairs a note id with the name of one of its tags
type NoteTagName struct {
	NoteID uint
	Name   string
}

// AllModels lists the models migrated at startup, parents first
func AllModels() []any {
	return []any{&Note{}, &Tag{}, &NoteTag{}}
}

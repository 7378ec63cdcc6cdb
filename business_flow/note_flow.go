package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/amirphl/bkm-notes/app/dto"
	"github.com/amirphl/bkm-notes/models"
	"github.com/amirphl/bkm-notes/repository"
	"github.com/amirphl/bkm-notes/utils"
	"gorm.io/gorm"
)

// Note creation sources
const (
	NoteSourceAPI           = "api"
	NoteSourceAddNoteQuery  = "add_note_query"
	NoteSourceAddNoteBody   = "add_note_body"
	noteDeletedMessage      = "Note deleted successfully"
	noteValidationErrorCode = "NOTE_VALIDATION_FAILED"
)

// NoteFlow handles the note use cases
type NoteFlow interface {
	ListNotes(ctx context.Context, req *dto.ListNotesRequest, metadata *ClientMetadata) ([]dto.NoteDTO, error)
	CreateNote(ctx context.Context, req *dto.CreateNoteRequest, metadata *ClientMetadata) (*dto.NoteSummaryResponse, error)
	UpdateNote(ctx context.Context, req *dto.UpdateNoteRequest, metadata *ClientMetadata) (*dto.NoteSummaryResponse, error)
	DeleteNote(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.MessageResponse, error)
}

// NoteFlowImpl implements the note business flow
type NoteFlowImpl struct {
	noteRepo    repository.NoteRepository
	tagRepo     repository.TagRepository
	noteTagRepo repository.NoteTagRepository
	db          *gorm.DB
}

// NewNoteFlow creates a new note flow instance
func NewNoteFlow(
	noteRepo repository.NoteRepository,
	tagRepo repository.TagRepository,
	noteTagRepo repository.NoteTagRepository,
	db *gorm.DB,
) NoteFlow {
	return &NoteFlowImpl{
		noteRepo:    noteRepo,
		tagRepo:     tagRepo,
		noteTagRepo: noteTagRepo,
		db:          db,
	}
}

// ListNotes returns the author's visible notes with their tags
func (f *NoteFlowImpl) ListNotes(ctx context.Context, req *dto.ListNotesRequest, metadata *ClientMetadata) ([]dto.NoteDTO, error) {
	items, err := listNotes(ctx, f.noteRepo, f.noteTagRepo, models.NoteListQuery{
		Author: req.Author,
		Tag:    utils.NormalizeTagName(req.Tag),
		Search: req.Search,
	})
	if err != nil {
		return nil, NewBusinessError("LIST_NOTES_FAILED", "Failed to fetch notes", err)
	}
	return items, nil
}

// CreateNote stores a note and links it to the hashtags found in its content.
// The note and all of its links are written in one transaction.
func (f *NoteFlowImpl) CreateNote(ctx context.Context, req *dto.CreateNoteRequest, metadata *ClientMetadata) (*dto.NoteSummaryResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, NewBusinessError(noteValidationErrorCode, "Content is required", ErrNoteContentRequired)
	}

	author := normalizeAuthor(req.Author)
	title := utils.DeriveTitle(req.Content)
	hashtags := utils.ExtractHashtags(req.Content)

	note := &models.Note{
		Title:   title,
		Content: req.Content,
		Author:  author,
		Blocked: models.BlockedFalse,
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.noteRepo.Save(txCtx, note); err != nil {
			return err
		}
		return f.linkHashtags(txCtx, note.ID, hashtags, author)
	})
	if err != nil {
		return nil, NewBusinessError("NOTE_CREATION_FAILED", "Failed to create note", err)
	}

	source := req.Source
	if source == "" {
		source = NoteSourceAPI
	}
	notesCreatedTotal.WithLabelValues(source).Inc()

	return &dto.NoteSummaryResponse{
		ID:      note.ID,
		Title:   title,
		Content: req.Content,
		Tags:    hashtags,
	}, nil
}

// UpdateNote replaces title, content and tag links of a note. Flags are left
// untouched. Updating an unknown id changes nothing and still succeeds.
func (f *NoteFlowImpl) UpdateNote(ctx context.Context, req *dto.UpdateNoteRequest, metadata *ClientMetadata) (*dto.NoteSummaryResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, NewBusinessError(noteValidationErrorCode, "Content is required", ErrNoteContentRequired)
	}

	author := normalizeAuthor(req.Author)
	title := utils.DeriveTitle(req.Content)
	hashtags := utils.ExtractHashtags(req.Content)

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.noteRepo.UpdateContent(txCtx, req.ID, title, req.Content); err != nil {
			return err
		}
		if err := f.noteTagRepo.DeleteByNote(txCtx, req.ID); err != nil {
			return err
		}

		// links need an existing note row
		exists, err := f.noteRepo.Exists(txCtx, models.NoteFilter{ID: &req.ID})
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		return f.linkHashtags(txCtx, req.ID, hashtags, author)
	})
	if err != nil {
		return nil, NewBusinessError("NOTE_UPDATE_FAILED", "Failed to update note", err)
	}

	notesUpdatedTotal.Inc()

	return &dto.NoteSummaryResponse{
		ID:      req.ID,
		Title:   title,
		Content: req.Content,
		Tags:    hashtags,
	}, nil
}

// DeleteNote soft-deletes a note by flipping its blocked marker
func (f *NoteFlowImpl) DeleteNote(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.MessageResponse, error) {
	if err := f.noteRepo.MarkBlocked(ctx, id); err != nil {
		return nil, NewBusinessError("NOTE_DELETION_FAILED", "Failed to delete note", err)
	}

	notesDeletedTotal.Inc()
	if metadata != nil {
		log.Printf("Note %d soft-deleted (ip=%s, request_id=%s)", id, metadata.IPAddress, metadata.RequestID)
	}

	return &dto.MessageResponse{Message: noteDeletedMessage}, nil
}

// linkHashtags upserts each tag, in extraction order, and links it to the note
func (f *NoteFlowImpl) linkHashtags(ctx context.Context, noteID uint, hashtags []string, author string) error {
	for _, name := range hashtags {
		tag, err := f.tagRepo.Upsert(ctx, name, utils.TagColor(name))
		if err != nil {
			return err
		}
		if err := f.noteTagRepo.Link(ctx, noteID, tag.ID, author); err != nil {
			return err
		}
		noteTagLinksTotal.Inc()
	}
	return nil
}

// listNotes loads notes matching query together with their tag names
func listNotes(
	ctx context.Context,
	noteRepo repository.NoteRepository,
	noteTagRepo repository.NoteTagRepository,
	query models.NoteListQuery,
) ([]dto.NoteDTO, error) {
	notes, err := noteRepo.ListForAuthor(ctx, query)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}

	tagsByNote, err := noteTagRepo.TagNamesByNoteIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		items = append(items, ToNoteDTO(*n, tagsByNote[n.ID]))
	}
	return items, nil
}

package businessflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/bkm-notes/app/dto"
	businessflow "github.com/amirphl/bkm-notes/business_flow"
	"github.com/amirphl/bkm-notes/models"
	"github.com/amirphl/bkm-notes/repository"
	testingutil "github.com/amirphl/bkm-notes/testing"
	"github.com/amirphl/bkm-notes/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingTagRepository breaks tag upserts to exercise rollback
type failingTagRepository struct {
	repository.TagRepository
}

func (r failingTagRepository) Upsert(ctx context.Context, name, color string) (*models.Tag, error) {
	return nil, errors.New("tag store unavailable")
}

type noteFlowDeps struct {
	flow     businessflow.NoteFlow
	noteRepo repository.NoteRepository
	tagRepo  repository.TagRepository
	fixtures *testingutil.TestFixtures
}

func newNoteFlowDeps(testDB *testingutil.TestDB) noteFlowDeps {
	noteRepo := repository.NewNoteRepository(testDB.DB)
	tagRepo := repository.NewTagRepository(testDB.DB)
	noteTagRepo := repository.NewNoteTagRepository(testDB.DB)
	return noteFlowDeps{
		flow:     businessflow.NewNoteFlow(noteRepo, tagRepo, noteTagRepo, testDB.DB),
		noteRepo: noteRepo,
		tagRepo:  tagRepo,
		fixtures: testingutil.NewTestFixtures(testDB),
	}
}

func testMetadata() *businessflow.ClientMetadata {
	md := businessflow.NewClientMetadata("127.0.0.1", "go-test")
	md.SetRequestID("test-request")
	return md
}

func TestNoteFlow_CreateNote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		deps := newNoteFlowDeps(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("DerivesTitleAndTags", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			resp, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{
				Content: "Buy milk #groceries #Today #today",
				Author:  author,
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, resp.ID)
			assert.Equal(t, "Buy milk", resp.Title)
			assert.Equal(t, []string{"groceries", "today"}, resp.Tags)

			tag, err := deps.tagRepo.ByName(ctx, "today")
			require.NoError(t, err)
			require.NotNil(t, tag)
			assert.Equal(t, utils.TagColor("today"), tag.Color)
		})

		t.Run("TagFilteredListFindsNote", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			resp, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "Hello #world", Author: author}, testMetadata())
			require.NoError(t, err)

			notes, err := deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: author, Tag: "world"}, testMetadata())
			require.NoError(t, err)
			require.Len(t, notes, 1)
			assert.Equal(t, resp.ID, notes[0].ID)
			assert.Equal(t, []string{"world"}, notes[0].Tags)

			// a leading # and upper case are ignored
			notes, err = deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: author, Tag: "#World"}, testMetadata())
			require.NoError(t, err)
			assert.Len(t, notes, 1)
		})

		t.Run("BlankContentRejected", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			for _, content := range []string{"", "   ", "\n\t"} {
				resp, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: content, Author: author}, testMetadata())
				assert.Nil(t, resp)
				assert.True(t, businessflow.IsNoteContentRequired(err))
			}

			count, err := deps.noteRepo.Count(ctx, models.NoteFilter{Author: &author})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("BlankAuthorStoredEmpty", func(t *testing.T) {
			resp, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "anonymous", Author: "   "}, testMetadata())
			require.NoError(t, err)

			note, err := deps.noteRepo.ByID(ctx, resp.ID)
			require.NoError(t, err)
			require.NotNil(t, note)
			assert.Equal(t, "", note.Author)
		})

		t.Run("NoTagsYieldsEmptySlice", func(t *testing.T) {
			resp, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "plain", Author: testingutil.UniqueAuthor()}, testMetadata())
			require.NoError(t, err)
			assert.NotNil(t, resp.Tags)
			assert.Empty(t, resp.Tags)
		})

		t.Run("LinkFailureRollsBackNote", func(t *testing.T) {
			noteTagRepo := repository.NewNoteTagRepository(testDB.DB)
			broken := businessflow.NewNoteFlow(deps.noteRepo, failingTagRepository{deps.tagRepo}, noteTagRepo, testDB.DB)
			author := testingutil.UniqueAuthor()

			resp, err := broken.CreateNote(ctx, &dto.CreateNoteRequest{Content: "orphan #x", Author: author}, testMetadata())
			assert.Error(t, err)
			assert.Nil(t, resp)

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "NOTE_CREATION_FAILED", be.Code)

			count, err := deps.noteRepo.Count(ctx, models.NoteFilter{Author: &author})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNoteFlow_UpdateNote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		deps := newNoteFlowDeps(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ReplacesTagSet", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			created, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "first #a", Author: author}, testMetadata())
			require.NoError(t, err)

			updated, err := deps.flow.UpdateNote(ctx, &dto.UpdateNoteRequest{
				ID:      created.ID,
				Content: "second #b",
				Author:  author,
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, created.ID, updated.ID)
			assert.Equal(t, "second", updated.Title)
			assert.Equal(t, []string{"b"}, updated.Tags)

			byB, err := deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: author, Tag: "b"}, testMetadata())
			require.NoError(t, err)
			require.Len(t, byB, 1)
			assert.Equal(t, "second #b", byB[0].Content)

			byA, err := deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: author, Tag: "a"}, testMetadata())
			require.NoError(t, err)
			assert.Empty(t, byA)
		})

		t.Run("KeepsFlags", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			note, err := deps.fixtures.CreateTestNote(author, "flagged")
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(note).Update("is_favorite", true).Error)

			_, err = deps.flow.UpdateNote(ctx, &dto.UpdateNoteRequest{ID: note.ID, Content: "flagged edit", Author: author}, testMetadata())
			require.NoError(t, err)

			stored, err := deps.noteRepo.ByID(ctx, note.ID)
			require.NoError(t, err)
			assert.True(t, stored.IsFavorite)
			assert.Equal(t, "flagged edit", stored.Content)
		})

		t.Run("MissingIDIsNoop", func(t *testing.T) {
			resp, err := deps.flow.UpdateNote(ctx, &dto.UpdateNoteRequest{ID: 987654, Content: "ghost #ghost", Author: "x"}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, uint(987654), resp.ID)
			assert.Equal(t, "ghost #ghost", resp.Content)

			note, err := deps.noteRepo.ByID(ctx, 987654)
			require.NoError(t, err)
			assert.Nil(t, note)

			tag, err := deps.tagRepo.ByName(ctx, "ghost")
			require.NoError(t, err)
			assert.Nil(t, tag)
		})

		t.Run("BlankContentRejected", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			note, err := deps.fixtures.CreateTestNote(author, "keep me")
			require.NoError(t, err)

			_, err = deps.flow.UpdateNote(ctx, &dto.UpdateNoteRequest{ID: note.ID, Content: " ", Author: author}, testMetadata())
			assert.True(t, businessflow.IsNoteContentRequired(err))

			stored, err := deps.noteRepo.ByID(ctx, note.ID)
			require.NoError(t, err)
			assert.Equal(t, "keep me", stored.Content)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNoteFlow_DeleteNote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		deps := newNoteFlowDeps(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SoftDeleteHidesFromList", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			created, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "temporary #tmp", Author: author}, testMetadata())
			require.NoError(t, err)

			resp, err := deps.flow.DeleteNote(ctx, created.ID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "Note deleted successfully", resp.Message)

			notes, err := deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: author}, testMetadata())
			require.NoError(t, err)
			assert.Empty(t, notes)

			stored, err := deps.noteRepo.ByID(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, models.BlockedTrue, stored.Blocked)
		})

		t.Run("UnknownIDSucceeds", func(t *testing.T) {
			resp, err := deps.flow.DeleteNote(ctx, 123456, nil)
			require.NoError(t, err)
			assert.Equal(t, "Note deleted successfully", resp.Message)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNoteFlow_ListNotes(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		deps := newNoteFlowDeps(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SearchAndAllTags", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			_, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "dentist on monday #health #calendar", Author: author}, testMetadata())
			require.NoError(t, err)
			_, err = deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "gym #health", Author: author}, testMetadata())
			require.NoError(t, err)

			found, err := deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: author, Search: "dentist"}, testMetadata())
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, []string{"calendar", "health"}, found[0].Tags)

			byTag, err := deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: author, Tag: "health"}, testMetadata())
			require.NoError(t, err)
			require.Len(t, byTag, 2)
			assert.Equal(t, "gym #health", byTag[0].Content)
			assert.Equal(t, []string{"calendar", "health"}, byTag[1].Tags)
		})

		t.Run("UnknownAuthorEmpty", func(t *testing.T) {
			notes, err := deps.flow.ListNotes(ctx, &dto.ListNotesRequest{Author: testingutil.UniqueAuthor()}, testMetadata())
			require.NoError(t, err)
			assert.NotNil(t, notes)
			assert.Empty(t, notes)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestParseNoteID(t *testing.T) {
	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: " 7 ", want: 7},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := businessflow.ParseNoteID(tt.raw)
			if tt.wantErr {
				assert.True(t, businessflow.IsInvalidNoteID(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

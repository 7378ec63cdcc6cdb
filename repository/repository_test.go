package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/amirphl/bkm-notes/models"
	"github.com/amirphl/bkm-notes/repository"
	testingutil "github.com/amirphl/bkm-notes/testing"
	"github.com/amirphl/bkm-notes/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewNoteRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndByID", func(t *testing.T) {
			note := &models.Note{Title: "hello", Content: "hello", Author: "alice", Blocked: models.BlockedFalse}
			require.NoError(t, repo.Save(ctx, note))
			assert.NotZero(t, note.ID)

			found, err := repo.ByID(ctx, note.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "hello", found.Content)
			assert.False(t, found.IsFavorite)
			assert.False(t, found.IsBlocked())
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, 999999)
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ListForAuthorHidesBlockedAndOtherAuthors", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			visible, err := fixtures.CreateTestNote(author, "visible note")
			require.NoError(t, err)
			_, err = fixtures.CreateBlockedNote(author, "gone")
			require.NoError(t, err)
			_, err = fixtures.CreateTestNote(testingutil.UniqueAuthor(), "someone else")
			require.NoError(t, err)

			notes, err := repo.ListForAuthor(ctx, models.NoteListQuery{Author: author})
			require.NoError(t, err)
			require.Len(t, notes, 1)
			assert.Equal(t, visible.ID, notes[0].ID)
		})

		t.Run("ListForAuthorOrdersByUpdatedAt", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			first, err := fixtures.CreateTestNote(author, "first")
			require.NoError(t, err)
			second, err := fixtures.CreateTestNote(author, "second")
			require.NoError(t, err)

			require.NoError(t, repo.UpdateContent(ctx, first.ID, "first", "first edited"))

			notes, err := repo.ListForAuthor(ctx, models.NoteListQuery{Author: author})
			require.NoError(t, err)
			require.Len(t, notes, 2)
			assert.Equal(t, first.ID, notes[0].ID)
			assert.Equal(t, second.ID, notes[1].ID)
			assert.Equal(t, "first edited", notes[0].Content)
		})

		t.Run("ListForAuthorFiltersByTagAndSearch", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			tagged, err := fixtures.CreateTestNote(author, "buy milk #groceries")
			require.NoError(t, err)
			_, err = fixtures.CreateTestNote(author, "call bob")
			require.NoError(t, err)

			tag, err := fixtures.CreateTestTag("groceries-" + author)
			require.NoError(t, err)
			require.NoError(t, fixtures.LinkTestTag(tagged, tag))

			byTag, err := repo.ListForAuthor(ctx, models.NoteListQuery{Author: author, Tag: tag.Name})
			require.NoError(t, err)
			require.Len(t, byTag, 1)
			assert.Equal(t, tagged.ID, byTag[0].ID)

			bySearch, err := repo.ListForAuthor(ctx, models.NoteListQuery{Author: author, Search: "bob"})
			require.NoError(t, err)
			require.Len(t, bySearch, 1)
			assert.Equal(t, "call bob", bySearch[0].Content)

			none, err := repo.ListForAuthor(ctx, models.NoteListQuery{Author: author, Tag: tag.Name, Search: "bob"})
			require.NoError(t, err)
			assert.Empty(t, none)
		})

		t.Run("MarkBlocked", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			note, err := fixtures.CreateTestNote(author, "to delete")
			require.NoError(t, err)

			require.NoError(t, repo.MarkBlocked(ctx, note.ID))

			found, err := repo.ByID(ctx, note.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.True(t, found.IsBlocked())

			// unknown ids are ignored
			assert.NoError(t, repo.MarkBlocked(ctx, 999999))
		})

		t.Run("CountAndExists", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			_, err := fixtures.CreateTestNote(author, "one")
			require.NoError(t, err)
			_, err = fixtures.CreateBlockedNote(author, "two")
			require.NoError(t, err)

			count, err := repo.Count(ctx, models.NoteFilter{Author: &author})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)

			count, err = repo.Count(ctx, models.NoteFilter{Author: &author, Blocked: utils.ToPtr(models.BlockedTrue)})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			exists, err := repo.Exists(ctx, models.NoteFilter{ID: utils.ToPtr(uint(999999))})
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("ContentLargerThan64KiB", func(t *testing.T) {
			content := strings.Repeat("0123456789abcdef", 8*1024) + " #big"
			note := &models.Note{Title: "big", Content: content, Author: testingutil.UniqueAuthor(), Blocked: models.BlockedFalse}
			require.NoError(t, repo.Save(ctx, note))

			found, err := repo.ByID(ctx, note.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, len(content), len(found.Content))
			assert.Equal(t, content, found.Content)

			edited := content + content
			require.NoError(t, repo.UpdateContent(ctx, note.ID, "big", edited))
			found, err = repo.ByID(ctx, note.ID)
			require.NoError(t, err)
			assert.Equal(t, edited, found.Content)
		})

		t.Run("SaveBatchAndByFilter", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			notes := []*models.Note{
				{Title: "a", Content: "a", Author: author, Blocked: models.BlockedFalse},
				{Title: "b", Content: "b", Author: author, Blocked: models.BlockedTrue},
				{Title: "c", Content: "c", Author: author, Blocked: models.BlockedFalse},
			}
			require.NoError(t, repo.SaveBatch(ctx, notes))
			for _, n := range notes {
				assert.NotZero(t, n.ID)
			}
			require.NoError(t, repo.SaveBatch(ctx, nil))

			all, err := repo.ByFilter(ctx, models.NoteFilter{Author: &author}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, notes[2].ID, all[0].ID)

			visible, err := repo.ByFilter(ctx, models.NoteFilter{Author: &author, Blocked: utils.ToPtr(models.BlockedFalse)}, "id ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, visible, 2)
			assert.Equal(t, "a", visible[0].Content)
			assert.Equal(t, "c", visible[1].Content)

			page, err := repo.ByFilter(ctx, models.NoteFilter{Author: &author}, "id ASC", 1, 1)
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, notes[1].ID, page[0].ID)
		})

		t.Run("SaveBatchInsideTransactionRollsBack", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				if err := repo.SaveBatch(txCtx, []*models.Note{
					{Title: "x", Content: "x", Author: author, Blocked: models.BlockedFalse},
					{Title: "y", Content: "y", Author: author, Blocked: models.BlockedFalse},
				}); err != nil {
					return err
				}
				return errors.New("abort")
			})
			require.Error(t, err)

			count, err := repo.Count(ctx, models.NoteFilter{Author: &author})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTagRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("UpsertKeepsFirstColor", func(t *testing.T) {
			first, err := repo.Upsert(ctx, "work", "#111111")
			require.NoError(t, err)
			assert.NotZero(t, first.ID)
			assert.Equal(t, "#111111", first.Color)

			second, err := repo.Upsert(ctx, "work", "#222222")
			require.NoError(t, err)
			assert.Equal(t, first.ID, second.ID)
			assert.Equal(t, "#111111", second.Color)

			count, err := repo.Count(ctx, models.TagFilter{Name: utils.ToPtr("work")})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("ByNameNotFound", func(t *testing.T) {
			tag, err := repo.ByName(ctx, "missing")
			assert.NoError(t, err)
			assert.Nil(t, tag)
		})

		t.Run("ListUsageByAuthor", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			n1, err := fixtures.CreateTestNote(author, "a")
			require.NoError(t, err)
			n2, err := fixtures.CreateTestNote(author, "b")
			require.NoError(t, err)
			other, err := fixtures.CreateTestNote(testingutil.UniqueAuthor(), "c")
			require.NoError(t, err)

			zeta, err := fixtures.CreateTestTag("zeta-" + author)
			require.NoError(t, err)
			alpha, err := fixtures.CreateTestTag("alpha-" + author)
			require.NoError(t, err)
			beta, err := fixtures.CreateTestTag("beta-" + author)
			require.NoError(t, err)

			require.NoError(t, fixtures.LinkTestTag(n1, zeta))
			require.NoError(t, fixtures.LinkTestTag(n2, zeta))
			require.NoError(t, fixtures.LinkTestTag(n1, beta))
			require.NoError(t, fixtures.LinkTestTag(n2, alpha))
			require.NoError(t, fixtures.LinkTestTag(other, alpha))

			rows, err := repo.ListUsageByAuthor(ctx, author)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, zeta.Name, rows[0].Name)
			assert.Equal(t, int64(2), rows[0].NoteCount)
			assert.Equal(t, alpha.Name, rows[1].Name)
			assert.Equal(t, int64(1), rows[1].NoteCount)
			assert.Equal(t, beta.Name, rows[2].Name)
			assert.Equal(t, zeta.Color, rows[0].Color)
		})

		t.Run("ListUsageByAuthorEmpty", func(t *testing.T) {
			rows, err := repo.ListUsageByAuthor(ctx, testingutil.UniqueAuthor())
			require.NoError(t, err)
			assert.Empty(t, rows)
		})

		t.Run("ByFilterNames", func(t *testing.T) {
			_, err := repo.Upsert(ctx, "filter-a", "#000001")
			require.NoError(t, err)
			_, err = repo.Upsert(ctx, "filter-b", "#000002")
			require.NoError(t, err)

			tags, err := repo.ByFilter(ctx, models.TagFilter{Names: []string{"filter-a", "filter-b"}}, "name ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, tags, 2)
			assert.Equal(t, "filter-a", tags[0].Name)
		})

		t.Run("SaveBatch", func(t *testing.T) {
			batch := []*models.Tag{
				{Name: "batch-one", Color: utils.TagColor("batch-one")},
				{Name: "batch-two", Color: utils.TagColor("batch-two")},
			}
			require.NoError(t, repo.SaveBatch(ctx, batch))

			tags, err := repo.ByFilter(ctx, models.TagFilter{Names: []string{"batch-one", "batch-two"}}, "", 1, 0)
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.Equal(t, batch[1].ID, tags[0].ID)

			// the unique name index rejects the whole batch
			err = repo.SaveBatch(ctx, []*models.Tag{{Name: "batch-three"}, {Name: "batch-one"}})
			assert.Error(t, err)
			found, err := repo.ByName(ctx, "batch-three")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNoteTagRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewNoteTagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("LinkAndTagNames", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			note, err := fixtures.CreateTestNote(author, "x")
			require.NoError(t, err)
			bare, err := fixtures.CreateTestNote(author, "y")
			require.NoError(t, err)
			b, err := fixtures.CreateTestTag("b-" + author)
			require.NoError(t, err)
			a, err := fixtures.CreateTestTag("a-" + author)
			require.NoError(t, err)

			require.NoError(t, repo.Link(ctx, note.ID, b.ID, author))
			require.NoError(t, repo.Link(ctx, note.ID, a.ID, author))

			names, err := repo.TagNamesByNoteIDs(ctx, []uint{note.ID, bare.ID})
			require.NoError(t, err)
			assert.Equal(t, []string{a.Name, b.Name}, names[note.ID])
			assert.NotContains(t, names, bare.ID)

			count, err := repo.Count(ctx, models.NoteTagFilter{NoteID: &note.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("DuplicateLinkFails", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			note, err := fixtures.CreateTestNote(author, "dup")
			require.NoError(t, err)
			tag, err := fixtures.CreateTestTag("dup-" + author)
			require.NoError(t, err)

			require.NoError(t, repo.Link(ctx, note.ID, tag.ID, author))
			assert.Error(t, repo.Link(ctx, note.ID, tag.ID, author))
		})

		t.Run("DeleteByNote", func(t *testing.T) {
			author := testingutil.UniqueAuthor()
			note, err := fixtures.CreateTestNote(author, "z")
			require.NoError(t, err)
			tag, err := fixtures.CreateTestTag("z-" + author)
			require.NoError(t, err)
			require.NoError(t, fixtures.LinkTestTag(note, tag))

			require.NoError(t, repo.DeleteByNote(ctx, note.ID))

			links, err := repo.ByFilter(ctx, models.NoteTagFilter{NoteID: &note.ID}, "", 0, 0)
			require.NoError(t, err)
			assert.Empty(t, links)
		})

		t.Run("EmptyIDs", func(t *testing.T) {
			names, err := repo.TagNamesByNoteIDs(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, names)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransaction(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewNoteRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		author := testingutil.UniqueAuthor()

		t.Run("RollbackOnError", func(t *testing.T) {
			boom := errors.New("boom")
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				note := &models.Note{Title: "t", Content: "t", Author: author}
				if err := repo.Save(txCtx, note); err != nil {
					return err
				}
				return boom
			})
			assert.ErrorIs(t, err, boom)

			count, err := repo.Count(ctx, models.NoteFilter{Author: &author})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("RollbackOnPanic", func(t *testing.T) {
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				note := &models.Note{Title: "t", Content: "t", Author: author}
				if err := repo.Save(txCtx, note); err != nil {
					return err
				}
				panic("unexpected")
			})
			assert.Error(t, err)

			count, err := repo.Count(ctx, models.NoteFilter{Author: &author})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("Commit", func(t *testing.T) {
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				return repo.Save(txCtx, &models.Note{Title: "t", Content: "t", Author: author})
			})
			require.NoError(t, err)

			count, err := repo.Count(ctx, models.NoteFilter{Author: &author})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestMigrateDefaults(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TagColorColumnDefault", func(t *testing.T) {
			require.NoError(t, testDB.DB.Exec("INSERT INTO tags (name, created_at) VALUES (?, CURRENT_TIMESTAMP)", "plain").Error)

			tag, err := repository.NewTagRepository(testDB.DB).ByName(ctx, "plain")
			require.NoError(t, err)
			require.NotNil(t, tag)
			assert.Equal(t, utils.DefaultTagColor, tag.Color)
		})

		t.Run("MigrateIsIdempotent", func(t *testing.T) {
			_, err := fixtures.CreateTestNote(testingutil.UniqueAuthor(), "survives")
			require.NoError(t, err)

			require.NoError(t, repository.Migrate(ctx, testDB.DB))

			count, err := fixtures.CountRows(&models.Note{})
			require.NoError(t, err)
			assert.EqualValues(t, 1, count)
		})

		t.Run("ClearAllTables", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			for _, model := range []any{&models.Note{}, &models.Tag{}, &models.NoteTag{}} {
				count, err := fixtures.CountRows(model)
				require.NoError(t, err)
				assert.Zero(t, count)
			}
		})
		return nil
	})
	require.NoError(t, err)
}

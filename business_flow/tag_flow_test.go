package businessflow_test

import (
	"testing"

	"github.com/amirphl/bkm-notes/app/dto"
	businessflow "github.com/amirphl/bkm-notes/business_flow"
	"github.com/amirphl/bkm-notes/repository"
	testingutil "github.com/amirphl/bkm-notes/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagFlow_ListTags(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		deps := newNoteFlowDeps(testDB)
		tagFlow := businessflow.NewTagFlow(repository.NewTagRepository(testDB.DB))
		ctx := testingutil.CreateTestContext()

		author := testingutil.UniqueAuthor()
		for _, content := range []string{"one #work #home", "two #work", "three #errands"} {
			_, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: content, Author: author}, testMetadata())
			require.NoError(t, err)
		}
		_, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "not mine #home #home2", Author: testingutil.UniqueAuthor()}, testMetadata())
		require.NoError(t, err)

		t.Run("CountDescThenName", func(t *testing.T) {
			tags, err := tagFlow.ListTags(ctx, &dto.ListTagsRequest{Author: author}, testMetadata())
			require.NoError(t, err)
			require.Len(t, tags, 3)

			assert.Equal(t, "work", tags[0].Name)
			assert.Equal(t, int64(2), tags[0].NoteCount)
			assert.Equal(t, "errands", tags[1].Name)
			assert.Equal(t, "home", tags[2].Name)
			assert.Equal(t, int64(1), tags[2].NoteCount)
			assert.Equal(t, "#D63F9A", tags[0].Color)
		})

		t.Run("UnknownAuthor", func(t *testing.T) {
			tags, err := tagFlow.ListTags(ctx, &dto.ListTagsRequest{Author: "nobody-" + author}, testMetadata())
			require.NoError(t, err)
			assert.NotNil(t, tags)
			assert.Empty(t, tags)
		})

		t.Run("SoftDeletedNotesStillCount", func(t *testing.T) {
			other := testingutil.UniqueAuthor()
			created, err := deps.flow.CreateNote(ctx, &dto.CreateNoteRequest{Content: "#kept", Author: other}, testMetadata())
			require.NoError(t, err)
			_, err = deps.flow.DeleteNote(ctx, created.ID, testMetadata())
			require.NoError(t, err)

			tags, err := tagFlow.ListTags(ctx, &dto.ListTagsRequest{Author: other}, testMetadata())
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.Equal(t, "kept", tags[0].Name)
		})

		return nil
	})
	require.NoError(t, err)
}

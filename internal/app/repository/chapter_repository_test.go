package repository

import (
	"testing"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupChapterTest(t *testing.T) (*gorm.DB, ChapterRepository, *model.Book) {
	testDB := setupRepoDB(t)
	book := createBook(t, testDB, model.Book{Title: "Chaptered"})
	return testDB, NewChapterRepository(testDB), book
}

func TestChapterRepository_CreateRecomputesWordCount(t *testing.T) {
	testDB, repo, book := setupChapterTest(t)

	require.NoError(t, repo.Create(&model.Chapter{BookID: book.ID, ChapterNumber: 1, Title: "One", WordCount: 120}))
	require.NoError(t, repo.Create(&model.Chapter{BookID: book.ID, ChapterNumber: 2, Title: "Two", WordCount: 80}))

	var stored model.Book
	require.NoError(t, testDB.First(&stored, book.ID).Error)
	assert.Equal(t, int64(200), stored.WordCount)
	assert.NotNil(t, stored.UpdatedAt)
}

func TestChapterRepository_ChapterNumberConflict(t *testing.T) {
	testDB, repo, book := setupChapterTest(t)

	first := &model.Chapter{BookID: book.ID, ChapterNumber: 1, Title: "One", WordCount: 10}
	second := &model.Chapter{BookID: book.ID, ChapterNumber: 2, Title: "Two", WordCount: 20}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	t.Run("Create with taken number", func(t *testing.T) {
		err := repo.Create(&model.Chapter{BookID: book.ID, ChapterNumber: 2, Title: "Dup", WordCount: 5})
		assert.ErrorIs(t, err, ErrChapterNumberConflict)

		var count int64
		require.NoError(t, testDB.Model(&model.Chapter{}).Where("book_id = ?", book.ID).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Update to sibling number", func(t *testing.T) {
		second.ChapterNumber = 1
		second.Title = "Renamed"
		err := repo.Update(second)
		assert.ErrorIs(t, err, ErrChapterNumberConflict)

		stored, err := repo.FindByID(second.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.ChapterNumber)
		assert.Equal(t, "Two", stored.Title)
	})

	t.Run("Update keeping own number", func(t *testing.T) {
		first.Title = "One, revised"
		first.WordCount = 40
		require.NoError(t, repo.Update(first))

		var stored model.Book
		require.NoError(t, testDB.First(&stored, book.ID).Error)
		assert.Equal(t, int64(60), stored.WordCount)
	})

	t.Run("Same number in another book", func(t *testing.T) {
		other := createBook(t, testDB, model.Book{Title: "Other"})
		assert.NoError(t, repo.Create(&model.Chapter{BookID: other.ID, ChapterNumber: 1, Title: "One"}))
	})
}

func TestChapterRepository_ListAndDelete(t *testing.T) {
	testDB, repo, book := setupChapterTest(t)
	reader := createUser(t, testDB, "reader", model.RoleUser)

	arc := &model.Arc{BookID: book.ID, Title: "Part I"}
	require.NoError(t, repo.CreateArc(arc))

	third := &model.Chapter{BookID: book.ID, ChapterNumber: 3, Title: "Three", Content: "body", WordCount: 1}
	first := &model.Chapter{BookID: book.ID, ChapterNumber: 1, Title: "One", Content: "body", WordCount: 1, ArcID: &arc.ID}
	require.NoError(t, repo.Create(third))
	require.NoError(t, repo.Create(first))

	chapters, err := repo.ListByBook(book.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, 1, chapters[0].ChapterNumber)
	assert.Empty(t, chapters[0].Content)
	assert.Equal(t, arc.ID, *chapters[0].ArcID)

	arcs, err := repo.ListArcs(book.ID)
	require.NoError(t, err)
	assert.Len(t, arcs, 1)

	comment := &model.ChapterComment{ChapterID: third.ID, UserID: reader.ID, Content: "hi"}
	require.NoError(t, testDB.Create(comment).Error)
	require.NoError(t, testDB.Create(&model.ChapterCommentReaction{CommentID: comment.ID, UserID: reader.ID, Value: model.ReactionLike}).Error)

	require.NoError(t, repo.Delete(third.ID))

	_, err = repo.FindByID(third.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var comments, reactions int64
	require.NoError(t, testDB.Model(&model.ChapterComment{}).Count(&comments).Error)
	require.NoError(t, testDB.Model(&model.ChapterCommentReaction{}).Count(&reactions).Error)
	assert.Zero(t, comments)
	assert.Zero(t, reactions)

	var stored model.Book
	require.NoError(t, testDB.First(&stored, book.ID).Error)
	assert.Equal(t, int64(1), stored.WordCount)

	assert.ErrorIs(t, repo.Delete(third.ID), gorm.ErrRecordNotFound)
}

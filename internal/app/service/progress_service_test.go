package service

import (
	"testing"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_SaveAndList(t *testing.T) {
	repos := setupServiceTest(t)
	svc := NewProgressService(repos.progress, repos.books, repos.chapters)
	author := repos.user(t, "author", model.RoleAuthor)
	reader := repos.user(t, "reader", model.RoleUser)
	book := repos.book(t, author, "Long Read")
	first := repos.chapter(t, book.ID, 1)
	second := repos.chapter(t, book.ID, 2)

	saved, err := svc.Save(reader.UserID, book.ID, model.ProgressInput{ChapterID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, saved.ChapterID)

	saved, err = svc.Save(reader.UserID, book.ID, model.ProgressInput{ChapterID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, saved.ChapterID)

	list, err := svc.List(reader.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ChapterID)
	require.NotNil(t, list[0].Book)
	assert.Equal(t, "Long Read", list[0].Book.Title)
	require.NotNil(t, list[0].Chapter)
	assert.Empty(t, list[0].Chapter.Content)
}

func TestProgressService_Validation(t *testing.T) {
	repos := setupServiceTest(t)
	svc := NewProgressService(repos.progress, repos.books, repos.chapters)
	author := repos.user(t, "author", model.RoleAuthor)
	reader := repos.user(t, "reader", model.RoleUser)
	book := repos.book(t, author, "Mine")
	other := repos.book(t, author, "Other")
	foreign := repos.chapter(t, other.ID, 1)

	_, err := svc.Save(reader.UserID, 9999, model.ProgressInput{ChapterID: foreign.ID})
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = svc.Save(reader.UserID, book.ID, model.ProgressInput{ChapterID: 9999})
	assert.ErrorIs(t, err, ErrChapterNotFound)

	_, err = svc.Save(reader.UserID, book.ID, model.ProgressInput{ChapterID: foreign.ID})
	assert.ErrorIs(t, err, ErrChapterNotInBook)
}

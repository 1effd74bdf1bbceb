package repository

import (
	"testing"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTaxonomyRepository_Genres(t *testing.T) {
	testDB := setupRepoDB(t)
	repo := NewTaxonomyRepository(testDB)

	romance := &model.Genre{Name: "Romance", IsActive: true}
	archived := &model.Genre{Name: "Archived", IsActive: false}
	require.NoError(t, repo.CreateGenre(romance))
	require.NoError(t, repo.CreateGenre(archived))

	active, err := repo.ListGenres(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Romance", active[0].Name)

	all, err := repo.ListGenres(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	romance.IsActive = false
	require.NoError(t, repo.UpdateGenre(romance))
	active, err = repo.ListGenres(true)
	require.NoError(t, err)
	assert.Empty(t, active)

	byIDs, err := repo.FindGenresByIDs([]uint{romance.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	book := createBook(t, testDB, model.Book{Title: "Linked", Genres: []model.Genre{*romance}})
	require.NoError(t, repo.DeleteGenre(romance.ID))

	var links int64
	require.NoError(t, testDB.Table("book_genres").Where("book_id = ?", book.ID).Count(&links).Error)
	assert.Zero(t, links)
	assert.ErrorIs(t, repo.DeleteGenre(romance.ID), gorm.ErrRecordNotFound)
}

func TestTaxonomyRepository_FindOrCreate(t *testing.T) {
	testDB := setupRepoDB(t)
	repo := NewTaxonomyRepository(testDB)

	first, err := repo.FindOrCreateTag("Found Family")
	require.NoError(t, err)
	again, err := repo.FindOrCreateTag(" found family ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.IsActive)

	genre, err := repo.FindOrCreateGenre("Mystery")
	require.NoError(t, err)
	found, err := repo.FindGenreByID(genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mystery", found.Name)
}

func TestTaxonomyRepository_Trends(t *testing.T) {
	testDB := setupRepoDB(t)
	repo := NewTaxonomyRepository(testDB)

	later := &model.Trend{Name: "Later", IsActive: true, SortOrder: 2}
	sooner := &model.Trend{Name: "Sooner", IsActive: true, SortOrder: 1}
	require.NoError(t, repo.CreateTrend(later))
	require.NoError(t, repo.CreateTrend(sooner))

	trends, err := repo.ListTrends(true)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "Sooner", trends[0].Name)

	book := createBook(t, testDB, model.Book{Title: "Promoted"})
	require.NoError(t, repo.AddBookToTrend(sooner.ID, book.ID))
	// 중복 편성은 무시
	require.NoError(t, repo.AddBookToTrend(sooner.ID, book.ID))

	var entries []model.BookTrend
	require.NoError(t, testDB.Where("trend_id = ?", sooner.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].AddedAt.IsZero())

	require.NoError(t, repo.RemoveBookFromTrend(sooner.ID, book.ID))
	assert.ErrorIs(t, repo.RemoveBookFromTrend(sooner.ID, book.ID), gorm.ErrRecordNotFound)

	require.NoError(t, repo.AddBookToTrend(later.ID, book.ID))
	require.NoError(t, repo.DeleteTrend(later.ID))
	var remaining int64
	require.NoError(t, testDB.Model(&model.BookTrend{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

package repository

import (
	"fmt"
	"testing"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, name string, role model.UserRole) *model.User {
	user := &model.User{
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "hashed",
		DisplayName:  name,
		Role:         role,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createGenre(t *testing.T, testDB *gorm.DB, name string) model.Genre {
	genre := model.Genre{Name: name, IsActive: true}
	require.NoError(t, testDB.Create(&genre).Error)
	return genre
}

func createTag(t *testing.T, testDB *gorm.DB, name string) model.Tag {
	tag := model.Tag{Name: name, IsActive: true}
	require.NoError(t, testDB.Create(&tag).Error)
	return tag
}

func createBook(t *testing.T, testDB *gorm.DB, book model.Book) *model.Book {
	if book.VerseType == "" {
		book.VerseType = model.VerseOriginal
	}
	if book.OriginType == "" {
		book.OriginType = model.OriginPlatformOriginal
	}
	if book.Status == "" {
		book.Status = model.StatusOngoing
	}
	require.NoError(t, testDB.Omit("Genres.*", "Tags.*").Create(&book).Error)
	return &book
}

func createChapter(t *testing.T, testDB *gorm.DB, bookID uint, number int) *model.Chapter {
	chapter := &model.Chapter{
		BookID:        bookID,
		ChapterNumber: number,
		Title:         fmt.Sprintf("Chapter %d", number),
		Content:       "some words here",
		WordCount:     3,
	}
	require.NoError(t, testDB.Create(chapter).Error)
	return chapter
}

func createReview(t *testing.T, testDB *gorm.DB, bookID, userID uint, rating float64) *model.Review {
	review := &model.Review{
		BookID:          bookID,
		UserID:          userID,
		EmotionalDamage: 3,
		Rating:          rating,
	}
	require.NoError(t, testDB.Create(review).Error)
	return review
}

func bookIDs(books []model.Book) []uint {
	ids := make([]uint, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}

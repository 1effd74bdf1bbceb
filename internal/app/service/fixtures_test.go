package service

import (
	"fmt"
	"testing"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testRepos struct {
	db       *gorm.DB
	users    repository.UserRepository
	books    repository.BookRepository
	chapters repository.ChapterRepository
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
	taxonomy repository.TaxonomyRepository
	progress repository.ProgressRepository
}

func setupServiceTest(t *testing.T) *testRepos {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &testRepos{
		db:       testDB,
		users:    repository.NewUserRepository(testDB),
		books:    repository.NewBookRepository(testDB),
		chapters: repository.NewChapterRepository(testDB),
		comments: repository.NewCommentRepository(testDB),
		reviews:  repository.NewReviewRepository(testDB),
		taxonomy: repository.NewTaxonomyRepository(testDB),
		progress: repository.NewProgressRepository(testDB),
	}
}

func (r *testRepos) user(t *testing.T, name string, role model.UserRole) model.Caller {
	u := &model.User{
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "hashed",
		DisplayName:  name,
		Role:         role,
	}
	require.NoError(t, r.users.Create(u))
	return model.Caller{UserID: u.ID, Role: u.Role}
}

func (r *testRepos) book(t *testing.T, author model.Caller, title string) *model.Book {
	authorID := author.UserID
	book := &model.Book{
		Title:      title,
		AuthorID:   &authorID,
		VerseType:  model.VerseOriginal,
		OriginType: model.OriginPlatformOriginal,
		Status:     model.StatusOngoing,
	}
	require.NoError(t, r.books.Create(book))
	return book
}

func (r *testRepos) chapter(t *testing.T, bookID uint, number int) *model.Chapter {
	chapter := &model.Chapter{
		BookID:        bookID,
		ChapterNumber: number,
		Title:         fmt.Sprintf("Chapter %d", number),
		Content:       "one two three",
		WordCount:     3,
	}
	require.NoError(t, r.chapters.Create(chapter))
	return chapter
}

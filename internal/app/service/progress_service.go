package service

import (
	"errors"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrChapterNotInBook = errors.New("chapter does not belong to this book")

type ProgressService interface {
	Save(userID, bookID uint, input model.ProgressInput) (*model.ReadingProgress, error)
	List(userID uint) ([]model.ReadingProgress, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	bookRepo     repository.BookRepository
	chapterRepo  repository.ChapterRepository
}

func NewProgressService(
	progressRepo repository.ProgressRepository,
	bookRepo repository.BookRepository,
	chapterRepo repository.ChapterRepository,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		bookRepo:     bookRepo,
		chapterRepo:  chapterRepo,
	}
}

// Save 작품별 마지막으로 읽은 챕터 기록
func (s *progressService) Save(userID, bookID uint, input model.ProgressInput) (*model.ReadingProgress, error) {
	if _, err := s.bookRepo.FindByID(bookID); err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}
	chapter, err := s.chapterRepo.FindByID(input.ChapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	if chapter.BookID != bookID {
		return nil, ErrChapterNotInBook
	}

	progress := &model.ReadingProgress{UserID: userID, BookID: bookID, ChapterID: chapter.ID}
	if err := s.progressRepo.Upsert(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *progressService) List(userID uint) ([]model.ReadingProgress, error) {
	return s.progressRepo.ListByUser(userID)
}

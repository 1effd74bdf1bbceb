package service

import (
	"errors"
	"strings"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/ikkim/fictionhub-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrChapterNumberTaken = errors.New("chapter number already exists in this book")
	ErrArcNotFound        = errors.New("arc not found")
)

type ChapterService interface {
	TableOfContents(bookID uint) (*model.TableOfContents, error)
	Get(id uint) (*model.Chapter, error)
	Create(caller model.Caller, bookID uint, input model.ChapterInput) (*model.Chapter, error)
	Update(caller model.Caller, id uint, input model.ChapterInput) (*model.Chapter, error)
	Delete(caller model.Caller, id uint) error
	ListArcs(bookID uint) ([]model.Arc, error)
	CreateArc(caller model.Caller, bookID uint, input model.ArcInput) (*model.Arc, error)
}

type chapterService struct {
	chapterRepo repository.ChapterRepository
	bookRepo    repository.BookRepository
}

func NewChapterService(chapterRepo repository.ChapterRepository, bookRepo repository.BookRepository) ChapterService {
	return &chapterService{
		chapterRepo: chapterRepo,
		bookRepo:    bookRepo,
	}
}

func (s *chapterService) findBook(id uint) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *chapterService) TableOfContents(bookID uint) (*model.TableOfContents, error) {
	if _, err := s.findBook(bookID); err != nil {
		return nil, err
	}

	arcs, err := s.chapterRepo.ListArcs(bookID)
	if err != nil {
		return nil, err
	}
	chapters, err := s.chapterRepo.ListByBook(bookID)
	if err != nil {
		return nil, err
	}

	toc := &model.TableOfContents{
		BookID:   bookID,
		Arcs:     arcs,
		Chapters: make([]model.ChapterListing, 0, len(chapters)),
	}
	if toc.Arcs == nil {
		toc.Arcs = []model.Arc{}
	}
	for _, c := range chapters {
		toc.Chapters = append(toc.Chapters, model.ChapterListing{
			ID:            c.ID,
			ChapterNumber: c.ChapterNumber,
			Title:         c.Title,
			WordCount:     c.WordCount,
			ArcID:         c.ArcID,
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		})
	}
	return toc, nil
}

func (s *chapterService) Get(id uint) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	// 삭제된 작품의 챕터는 노출하지 않음
	if _, err := s.findBook(chapter.BookID); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	return chapter, nil
}

func (s *chapterService) checkArc(bookID uint, arcID *uint) error {
	if arcID == nil {
		return nil
	}
	arc, err := s.chapterRepo.FindArcByID(*arcID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArcNotFound
		}
		return err
	}
	if arc.BookID != bookID {
		return ErrArcNotFound
	}
	return nil
}

func mapChapterWriteError(err error) error {
	if errors.Is(err, repository.ErrChapterNumberConflict) {
		return ErrChapterNumberTaken
	}
	return err
}

func (s *chapterService) Create(caller model.Caller, bookID uint, input model.ChapterInput) (*model.Chapter, error) {
	book, err := s.findBook(bookID)
	if err != nil {
		return nil, err
	}
	if !canManageBook(caller, book) {
		return nil, ErrBookAccessDenied
	}
	if err := s.checkArc(bookID, input.ArcID); err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		BookID:        bookID,
		ChapterNumber: input.ChapterNumber,
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		WordCount:     util.CountWords(input.Content),
		ArcID:         input.ArcID,
	}
	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, mapChapterWriteError(err)
	}

	logger.Info("Chapter published", map[string]interface{}{
		"book_id":        bookID,
		"chapter_id":     chapter.ID,
		"chapter_number": chapter.ChapterNumber,
		"word_count":     chapter.WordCount,
	})
	return chapter, nil
}

func (s *chapterService) loadManaged(caller model.Caller, id uint) (*model.Chapter, error) {
	chapter, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	book, err := s.findBook(chapter.BookID)
	if err != nil {
		return nil, err
	}
	if !canManageBook(caller, book) {
		return nil, ErrBookAccessDenied
	}
	return chapter, nil
}

func (s *chapterService) Update(caller model.Caller, id uint, input model.ChapterInput) (*model.Chapter, error) {
	chapter, err := s.loadManaged(caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkArc(chapter.BookID, input.ArcID); err != nil {
		return nil, err
	}

	chapter.Title = strings.TrimSpace(input.Title)
	chapter.Content = input.Content
	chapter.ChapterNumber = input.ChapterNumber
	chapter.WordCount = util.CountWords(input.Content)
	chapter.ArcID = input.ArcID
	chapter.Arc = nil

	if err := s.chapterRepo.Update(chapter); err != nil {
		return nil, mapChapterWriteError(err)
	}
	return chapter, nil
}

func (s *chapterService) Delete(caller model.Caller, id uint) error {
	chapter, err := s.loadManaged(caller, id)
	if err != nil {
		return err
	}
	if err := s.chapterRepo.Delete(chapter.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChapterNotFound
		}
		return err
	}

	logger.Info("Chapter deleted", map[string]interface{}{
		"book_id":    chapter.BookID,
		"chapter_id": chapter.ID,
		"user_id":    caller.UserID,
	})
	return nil
}

func (s *chapterService) ListArcs(bookID uint) ([]model.Arc, error) {
	if _, err := s.findBook(bookID); err != nil {
		return nil, err
	}
	return s.chapterRepo.ListArcs(bookID)
}

func (s *chapterService) CreateArc(caller model.Caller, bookID uint, input model.ArcInput) (*model.Arc, error) {
	book, err := s.findBook(bookID)
	if err != nil {
		return nil, err
	}
	if !canManageBook(caller, book) {
		return nil, ErrBookAccessDenied
	}

	arc := &model.Arc{BookID: bookID, Title: strings.TrimSpace(input.Title), SortOrder: input.SortOrder}
	if err := s.chapterRepo.CreateArc(arc); err != nil {
		return nil, err
	}
	return arc, nil
}

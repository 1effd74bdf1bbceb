package service

import (
	"errors"
	"strings"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrBookAccessDenied = errors.New("book access denied")
	ErrUnknownGenre     = errors.New("unknown genre id")
	ErrUnknownTag       = errors.New("unknown tag id")
)

type BookService interface {
	GetDetail(id uint) (*model.BookDetail, error)
	Create(caller model.Caller, input model.BookInput) (*model.BookDetail, error)
	Update(caller model.Caller, id uint, input model.BookInput) (*model.BookDetail, error)
	Delete(caller model.Caller, id uint) error
	HardDelete(caller model.Caller, id uint) error
}

type bookService struct {
	bookRepo     repository.BookRepository
	taxonomyRepo repository.TaxonomyRepository
	views        ViewCounter
}

func NewBookService(
	bookRepo repository.BookRepository,
	taxonomyRepo repository.TaxonomyRepository,
	views ViewCounter,
) BookService {
	return &bookService{
		bookRepo:     bookRepo,
		taxonomyRepo: taxonomyRepo,
		views:        views,
	}
}

// canManageBook 작품 작가 또는 관리자
func canManageBook(caller model.Caller, book *model.Book) bool {
	if caller.IsAdmin() {
		return true
	}
	return book.AuthorID != nil && *book.AuthorID == caller.UserID && caller.UserID != 0
}

func (s *bookService) findBook(id uint) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func toDetail(book *model.Book) *model.BookDetail {
	detail := &model.BookDetail{
		BookSummary: book.ToSummary(),
		Trends:      make([]model.Trend, 0, len(book.TrendEntries)),
	}
	for _, entry := range book.TrendEntries {
		if entry.Trend.IsActive {
			detail.Trends = append(detail.Trends, entry.Trend)
		}
	}
	return detail
}

func (s *bookService) GetDetail(id uint) (*model.BookDetail, error) {
	book, err := s.findBook(id)
	if err != nil {
		return nil, err
	}

	if s.views != nil {
		s.views.Record(book.ID)
	}
	return toDetail(book), nil
}

// resolveTaxonomy 요청한 장르/태그 id 가 모두 존재해야 함
func (s *bookService) resolveTaxonomy(input model.BookInput) ([]model.Genre, []model.Tag, error) {
	genreIDs := uniqueIDs(input.GenreIDs)
	genres, err := s.taxonomyRepo.FindGenresByIDs(genreIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(genres) != len(genreIDs) {
		return nil, nil, ErrUnknownGenre
	}

	tagIDs := uniqueIDs(input.TagIDs)
	tags, err := s.taxonomyRepo.FindTagsByIDs(tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, ErrUnknownTag
	}
	return genres, tags, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func applyBookInput(book *model.Book, input model.BookInput) {
	book.Title = strings.TrimSpace(input.Title)
	book.Description = input.Description
	book.CoverImage = input.CoverImage
	book.VerseType = model.ParseVerseType(input.VerseType)
	book.OriginType = model.ParseOriginType(input.OriginType)
	book.IsFanfic = input.IsFanfic || book.VerseType != model.VerseOriginal
	book.AuthorName = strings.TrimSpace(input.AuthorName)
	book.SourceURL = strings.TrimSpace(input.SourceURL)
	if status, ok := model.ParseBookStatus(input.Status); ok {
		book.Status = status
	} else if book.Status == "" {
		book.Status = model.StatusOngoing
	}
}

func (s *bookService) Create(caller model.Caller, input model.BookInput) (*model.BookDetail, error) {
	if !caller.CanPublish() {
		logger.Warn("Book creation denied", map[string]interface{}{
			"user_id": caller.UserID,
			"role":    caller.Role,
		})
		return nil, ErrBookAccessDenied
	}

	genres, tags, err := s.resolveTaxonomy(input)
	if err != nil {
		return nil, err
	}

	authorID := caller.UserID
	book := &model.Book{AuthorID: &authorID, Genres: genres, Tags: tags}
	applyBookInput(book, input)

	if err := s.bookRepo.Create(book); err != nil {
		return nil, err
	}

	logger.Info("Book created", map[string]interface{}{
		"book_id":   book.ID,
		"author_id": caller.UserID,
		"title":     book.Title,
	})
	return s.detailAfterWrite(book.ID)
}

func (s *bookService) Update(caller model.Caller, id uint, input model.BookInput) (*model.BookDetail, error) {
	book, err := s.findBook(id)
	if err != nil {
		return nil, err
	}
	if !canManageBook(caller, book) {
		return nil, ErrBookAccessDenied
	}

	genres, tags, err := s.resolveTaxonomy(input)
	if err != nil {
		return nil, err
	}
	applyBookInput(book, input)
	book.Genres = genres
	book.Tags = tags

	if err := s.bookRepo.Update(book); err != nil {
		return nil, err
	}

	logger.Info("Book updated", map[string]interface{}{
		"book_id": book.ID,
		"user_id": caller.UserID,
	})
	return s.detailAfterWrite(book.ID)
}

func (s *bookService) detailAfterWrite(id uint) (*model.BookDetail, error) {
	book, err := s.findBook(id)
	if err != nil {
		return nil, err
	}
	return toDetail(book), nil
}

func (s *bookService) Delete(caller model.Caller, id uint) error {
	book, err := s.findBook(id)
	if err != nil {
		return err
	}
	if !canManageBook(caller, book) {
		return ErrBookAccessDenied
	}

	if err := s.bookRepo.SoftDelete(id); err != nil {
		return err
	}
	logger.Info("Book soft deleted", map[string]interface{}{
		"book_id": id,
		"user_id": caller.UserID,
	})
	return nil
}

// HardDelete 관리자 전용, 소프트 삭제된 작품도 대상
func (s *bookService) HardDelete(caller model.Caller, id uint) error {
	if !caller.IsAdmin() {
		return ErrBookAccessDenied
	}
	if _, err := s.bookRepo.FindByIDUnscoped(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if err := s.bookRepo.HardDelete(id); err != nil {
		return err
	}
	logger.Warn("Book permanently deleted", map[string]interface{}{
		"book_id":  id,
		"admin_id": caller.UserID,
	})
	return nil
}

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
	ErrGenreNotFound = errors.New("genre not found")
	ErrTagNotFound   = errors.New("tag not found")
	ErrTrendNotFound = errors.New("trend not found")
	ErrEmptyName     = errors.New("name must not be empty")
)

type TaxonomyService interface {
	ListGenres() ([]model.Genre, error)
	ListTags() ([]model.Tag, error)
	ListTrends() ([]model.Trend, error)

	CreateGenre(input model.TaxonomyInput) (*model.Genre, error)
	UpdateGenre(id uint, input model.TaxonomyInput) (*model.Genre, error)
	DeleteGenre(id uint) error

	CreateTag(input model.TaxonomyInput) (*model.Tag, error)
	UpdateTag(id uint, input model.TaxonomyInput) (*model.Tag, error)
	DeleteTag(id uint) error

	CreateTrend(input model.TrendInput) (*model.Trend, error)
	UpdateTrend(id uint, input model.TrendInput) (*model.Trend, error)
	DeleteTrend(id uint) error
	AddBookToTrend(trendID, bookID uint) error
	RemoveBookFromTrend(trendID, bookID uint) error
}

type taxonomyService struct {
	taxonomyRepo repository.TaxonomyRepository
	bookRepo     repository.BookRepository
}

func NewTaxonomyService(taxonomyRepo repository.TaxonomyRepository, bookRepo repository.BookRepository) TaxonomyService {
	return &taxonomyService{
		taxonomyRepo: taxonomyRepo,
		bookRepo:     bookRepo,
	}
}

// notFound gorm 미존재 에러를 도메인 에러로 치환
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func activeFlag(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// ListGenres 활성 장르만
func (s *taxonomyService) ListGenres() ([]model.Genre, error) {
	return s.taxonomyRepo.ListGenres(true)
}

func (s *taxonomyService) ListTags() ([]model.Tag, error) {
	return s.taxonomyRepo.ListTags(true)
}

// ListTrends 활성 트렌드, sort_order 순
func (s *taxonomyService) ListTrends() ([]model.Trend, error) {
	return s.taxonomyRepo.ListTrends(true)
}

func (s *taxonomyService) CreateGenre(input model.TaxonomyInput) (*model.Genre, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	genre := &model.Genre{Name: name, IsActive: activeFlag(input.IsActive)}
	if err := s.taxonomyRepo.CreateGenre(genre); err != nil {
		return nil, err
	}
	logger.Info("Genre created", map[string]interface{}{
		"genre_id": genre.ID,
		"name":     genre.Name,
	})
	return genre, nil
}

func (s *taxonomyService) UpdateGenre(id uint, input model.TaxonomyInput) (*model.Genre, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	genre, err := s.taxonomyRepo.FindGenreByID(id)
	if err != nil {
		return nil, notFound(err, ErrGenreNotFound)
	}
	genre.Name = name
	if input.IsActive != nil {
		genre.IsActive = *input.IsActive
	}
	if err := s.taxonomyRepo.UpdateGenre(genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *taxonomyService) DeleteGenre(id uint) error {
	if err := s.taxonomyRepo.DeleteGenre(id); err != nil {
		return notFound(err, ErrGenreNotFound)
	}
	logger.Info("Genre deleted", map[string]interface{}{
		"genre_id": id,
	})
	return nil
}

func (s *taxonomyService) CreateTag(input model.TaxonomyInput) (*model.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	tag := &model.Tag{Name: name, IsActive: activeFlag(input.IsActive)}
	if err := s.taxonomyRepo.CreateTag(tag); err != nil {
		return nil, err
	}
	logger.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})
	return tag, nil
}

func (s *taxonomyService) UpdateTag(id uint, input model.TaxonomyInput) (*model.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	tag, err := s.taxonomyRepo.FindTagByID(id)
	if err != nil {
		return nil, notFound(err, ErrTagNotFound)
	}
	tag.Name = name
	if input.IsActive != nil {
		tag.IsActive = *input.IsActive
	}
	if err := s.taxonomyRepo.UpdateTag(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *taxonomyService) DeleteTag(id uint) error {
	if err := s.taxonomyRepo.DeleteTag(id); err != nil {
		return notFound(err, ErrTagNotFound)
	}
	logger.Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
	})
	return nil
}

func (s *taxonomyService) CreateTrend(input model.TrendInput) (*model.Trend, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	trend := &model.Trend{
		Name:        name,
		IsActive:    activeFlag(input.IsActive),
		Image:       strings.TrimSpace(input.Image),
		Description: input.Description,
		SortOrder:   input.SortOrder,
	}
	if err := s.taxonomyRepo.CreateTrend(trend); err != nil {
		return nil, err
	}
	logger.Info("Trend created", map[string]interface{}{
		"trend_id": trend.ID,
		"name":     trend.Name,
	})
	return trend, nil
}

func (s *taxonomyService) UpdateTrend(id uint, input model.TrendInput) (*model.Trend, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	trend, err := s.taxonomyRepo.FindTrendByID(id)
	if err != nil {
		return nil, notFound(err, ErrTrendNotFound)
	}
	trend.Name = name
	trend.Image = strings.TrimSpace(input.Image)
	trend.Description = input.Description
	trend.SortOrder = input.SortOrder
	if input.IsActive != nil {
		trend.IsActive = *input.IsActive
	}
	if err := s.taxonomyRepo.UpdateTrend(trend); err != nil {
		return nil, err
	}
	return trend, nil
}

func (s *taxonomyService) DeleteTrend(id uint) error {
	if err := s.taxonomyRepo.DeleteTrend(id); err != nil {
		return notFound(err, ErrTrendNotFound)
	}
	return nil
}

func (s *taxonomyService) AddBookToTrend(trendID, bookID uint) error {
	if _, err := s.taxonomyRepo.FindTrendByID(trendID); err != nil {
		return notFound(err, ErrTrendNotFound)
	}
	if _, err := s.bookRepo.FindByID(bookID); err != nil {
		return notFound(err, ErrBookNotFound)
	}
	if err := s.taxonomyRepo.AddBookToTrend(trendID, bookID); err != nil {
		return err
	}
	logger.Info("Book added to trend", map[string]interface{}{
		"trend_id": trendID,
		"book_id":  bookID,
	})
	return nil
}

func (s *taxonomyService) RemoveBookFromTrend(trendID, bookID uint) error {
	if err := s.taxonomyRepo.RemoveBookFromTrend(trendID, bookID); err != nil {
		return notFound(err, ErrTrendNotFound)
	}
	return nil
}

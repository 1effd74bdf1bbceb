package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaxonomyRepository interface {
	ListGenres(activeOnly bool) ([]model.Genre, error)
	FindGenresByIDs(ids []uint) ([]model.Genre, error)
	FindGenreByID(id uint) (*model.Genre, error)
	CreateGenre(genre *model.Genre) error
	UpdateGenre(genre *model.Genre) error
	DeleteGenre(id uint) error
	FindOrCreateGenre(name string) (*model.Genre, error)

	ListTags(activeOnly bool) ([]model.Tag, error)
	FindTagsByIDs(ids []uint) ([]model.Tag, error)
	FindTagByID(id uint) (*model.Tag, error)
	CreateTag(tag *model.Tag) error
	UpdateTag(tag *model.Tag) error
	DeleteTag(id uint) error
	FindOrCreateTag(name string) (*model.Tag, error)

	ListTrends(activeOnly bool) ([]model.Trend, error)
	FindTrendByID(id uint) (*model.Trend, error)
	CreateTrend(trend *model.Trend) error
	UpdateTrend(trend *model.Trend) error
	DeleteTrend(id uint) error
	AddBookToTrend(trendID, bookID uint) error
	RemoveBookFromTrend(trendID, bookID uint) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func listActive[T any](db *gorm.DB, activeOnly bool, order string) ([]T, error) {
	items := []T{}
	q := db.Order(order)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&items).Error
	return items, err
}

func findByIDs[T any](db *gorm.DB, ids []uint) ([]T, error) {
	items := []T{}
	if len(ids) == 0 {
		return items, nil
	}
	err := db.Where("id IN ?", ids).Order("name ASC").Find(&items).Error
	return items, err
}

func findOne[T any](db *gorm.DB, id uint) (*T, error) {
	var item T
	if err := db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// deleteWithLinks 연결 테이블 정리 후 본 행 삭제
func deleteWithLinks(db *gorm.DB, value interface{}, id uint, linkTable, linkColumn string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+linkTable+" WHERE "+linkColumn+" = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(value, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *taxonomyRepository) ListGenres(activeOnly bool) ([]model.Genre, error) {
	return listActive[model.Genre](r.db, activeOnly, "name ASC")
}

func (r *taxonomyRepository) FindGenresByIDs(ids []uint) ([]model.Genre, error) {
	return findByIDs[model.Genre](r.db, ids)
}

func (r *taxonomyRepository) FindGenreByID(id uint) (*model.Genre, error) {
	return findOne[model.Genre](r.db, id)
}

func (r *taxonomyRepository) CreateGenre(genre *model.Genre) error {
	return r.db.Create(genre).Error
}

func (r *taxonomyRepository) UpdateGenre(genre *model.Genre) error {
	return r.db.Model(genre).Select("Name", "IsActive", "UpdatedAt").Updates(genre).Error
}

func (r *taxonomyRepository) DeleteGenre(id uint) error {
	return deleteWithLinks(r.db, &model.Genre{}, id, "book_genres", "genre_id")
}

// FindOrCreateGenre 이름(대소문자 무시)으로 조회, 없으면 활성 상태로 생성
func (r *taxonomyRepository) FindOrCreateGenre(name string) (*model.Genre, error) {
	name = strings.TrimSpace(name)
	var genre model.Genre
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).Take(&genre).Error
	if err == nil {
		return &genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre = model.Genre{Name: name, IsActive: true}
	if err := r.db.Create(&genre).Error; err != nil {
		return nil, err
	}
	logger.Info("Genre created on demand", map[string]interface{}{
		"genre_id": genre.ID,
		"name":     genre.Name,
	})
	return &genre, nil
}

func (r *taxonomyRepository) ListTags(activeOnly bool) ([]model.Tag, error) {
	return listActive[model.Tag](r.db, activeOnly, "name ASC")
}

func (r *taxonomyRepository) FindTagsByIDs(ids []uint) ([]model.Tag, error) {
	return findByIDs[model.Tag](r.db, ids)
}

func (r *taxonomyRepository) FindTagByID(id uint) (*model.Tag, error) {
	return findOne[model.Tag](r.db, id)
}

func (r *taxonomyRepository) CreateTag(tag *model.Tag) error {
	return r.db.Create(tag).Error
}

func (r *taxonomyRepository) UpdateTag(tag *model.Tag) error {
	return r.db.Model(tag).Select("Name", "IsActive", "UpdatedAt").Updates(tag).Error
}

func (r *taxonomyRepository) DeleteTag(id uint) error {
	return deleteWithLinks(r.db, &model.Tag{}, id, "book_tags", "tag_id")
}

func (r *taxonomyRepository) FindOrCreateTag(name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	var tag model.Tag
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).Take(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = model.Tag{Name: name, IsActive: true}
	if err := r.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	logger.Info("Tag created on demand", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})
	return &tag, nil
}

// ListTrends 노출 순서(sort_order) 기준
func (r *taxonomyRepository) ListTrends(activeOnly bool) ([]model.Trend, error) {
	return listActive[model.Trend](r.db, activeOnly, "sort_order ASC, id ASC")
}

func (r *taxonomyRepository) FindTrendByID(id uint) (*model.Trend, error) {
	return findOne[model.Trend](r.db, id)
}

func (r *taxonomyRepository) CreateTrend(trend *model.Trend) error {
	return r.db.Create(trend).Error
}

func (r *taxonomyRepository) UpdateTrend(trend *model.Trend) error {
	return r.db.Model(trend).
		Select("Name", "IsActive", "Image", "Description", "SortOrder", "UpdatedAt").
		Updates(trend).Error
}

func (r *taxonomyRepository) DeleteTrend(id uint) error {
	return deleteWithLinks(r.db, &model.Trend{}, id, "book_trends", "trend_id")
}

// AddBookToTrend 이미 편성된 경우 그대로 둠
func (r *taxonomyRepository) AddBookToTrend(trendID, bookID uint) error {
	entry := model.BookTrend{BookID: bookID, TrendID: trendID, AddedAt: time.Now()}
	return r.db.Omit("Trend").Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}

func (r *taxonomyRepository) RemoveBookFromTrend(trendID, bookID uint) error {
	result := r.db.Where("trend_id = ? AND book_id = ?", trendID, bookID).Delete(&model.BookTrend{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

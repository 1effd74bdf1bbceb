package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookFilter 파싱이 끝난 작품 목록 조회 조건
type BookFilter struct {
	SearchTerm      string
	VerseType       *model.VerseType
	OriginType      *model.OriginType
	Statuses        []model.BookStatus
	MinRating       *float64
	GenreIDs        []uint
	ExcludeGenreIDs []uint
	TagIDs          []uint
	ExcludeTagIDs   []uint
	MinReviewCount  *int
	TrendID         *uint
	CreatedAfter    *time.Time
	SortBy          string
	SortAscending   bool
	Limit           int
	Offset          int
}

type BookRepository interface {
	Browse(filter BookFilter) ([]model.Book, int64, error)
	FindByID(id uint) (*model.Book, error)
	FindByIDUnscoped(id uint) (*model.Book, error)
	Create(book *model.Book) error
	Update(book *model.Book) error
	SoftDelete(id uint) error
	HardDelete(id uint) error
	IncrementViews(id uint, delta int64) error
	AddViews(deltas map[uint]int64) error
	BulkCreate(books []model.Book, batchSize int) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

const (
	reviewCountExpr  = "(SELECT COUNT(*) FROM reviews WHERE reviews.book_id = books.id AND reviews.deleted_at IS NULL)"
	chapterCountExpr = "(SELECT COUNT(*) FROM chapters WHERE chapters.book_id = books.id)"
	authorNameExpr   = "COALESCE(NULLIF(books.author_name, ''), authors.display_name, '')"
	authorJoin       = "LEFT JOIN users AS authors ON authors.id = books.author_id AND authors.deleted_at IS NULL"
)

// summarySelect 목록/상세 공통 projection
var summarySelect = fmt.Sprintf(
	"books.*, %s AS resolved_author_name, %s AS review_count, %s AS chapter_count",
	authorNameExpr, reviewCountExpr, chapterCountExpr,
)

// sortExpressions 정렬 키 (소문자) -> ORDER BY 식
var sortExpressions = map[string]string{
	"updatedat":     "COALESCE(books.updated_at, books.created_at)",
	"createdat":     "books.created_at",
	"totalviews":    "books.total_views",
	"title":         "books.title",
	"averagerating": "books.average_rating",
	"reviewcount":   reviewCountExpr,
	"chaptercount":  chapterCountExpr,
}

const (
	DefaultSortKey = "updatedat"
	RandomSortKey  = "random"
	fallbackSort   = "title"
)

// ResolveSortKey 대소문자 무시, 알 수 없는 키는 title
func ResolveSortKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return DefaultSortKey
	}
	if k == RandomSortKey {
		return k
	}
	if _, ok := sortExpressions[k]; ok {
		return k
	}
	return fallbackSort
}

// escapeLike LIKE 와일드카드 이스케이프
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// applyBrowseFilters 필터 순서: 기본 조건 -> 세계관 -> 출처 -> 상태 -> 검색 -> 평점 -> 장르 -> 태그 -> 리뷰 수 -> 트렌드 -> 기간
func applyBrowseFilters(q *gorm.DB, f BookFilter) *gorm.DB {
	q = q.Joins(authorJoin)

	if f.VerseType != nil {
		q = q.Where("books.verse_type = ?", *f.VerseType)
	}
	if f.OriginType != nil {
		q = q.Where("books.origin_type = ?", *f.OriginType)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("books.status IN ?", f.Statuses)
	}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where(
			"(LOWER(books.title) LIKE ? ESCAPE '\\' OR LOWER(books.description) LIKE ? ESCAPE '\\' OR LOWER("+authorNameExpr+") LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}
	if f.MinRating != nil {
		q = q.Where("books.average_rating >= ?", *f.MinRating)
	}
	if len(f.GenreIDs) > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM book_genres bg WHERE bg.book_id = books.id AND bg.genre_id IN ?)", f.GenreIDs)
	}
	if len(f.ExcludeGenreIDs) > 0 {
		q = q.Where("NOT EXISTS (SELECT 1 FROM book_genres bg WHERE bg.book_id = books.id AND bg.genre_id IN ?)", f.ExcludeGenreIDs)
	}
	if len(f.TagIDs) > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM book_tags bt WHERE bt.book_id = books.id AND bt.tag_id IN ?)", f.TagIDs)
	}
	if len(f.ExcludeTagIDs) > 0 {
		q = q.Where("NOT EXISTS (SELECT 1 FROM book_tags bt WHERE bt.book_id = books.id AND bt.tag_id IN ?)", f.ExcludeTagIDs)
	}
	if f.MinReviewCount != nil && *f.MinReviewCount > 0 {
		q = q.Where(reviewCountExpr+" >= ?", *f.MinReviewCount)
	}
	if f.TrendID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM book_trends btr WHERE btr.book_id = books.id AND btr.trend_id = ?)", *f.TrendID)
	}
	if f.CreatedAfter != nil {
		q = q.Where("books.created_at >= ?", *f.CreatedAfter)
	}
	return q
}

// orderClause random 을 제외한 모든 키에 books.id 보조 정렬
func orderClause(key string, ascending bool) string {
	if key == RandomSortKey {
		return "RANDOM()"
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, books.id %s", sortExpressions[key], dir, dir)
}

func (r *bookRepository) Browse(filter BookFilter) ([]model.Book, int64, error) {
	sortKey := ResolveSortKey(filter.SortBy)

	logger.Debug("Browsing books with filter", map[string]interface{}{
		"search":            filter.SearchTerm,
		"statuses":          filter.Statuses,
		"genre_ids":         filter.GenreIDs,
		"exclude_genre_ids": filter.ExcludeGenreIDs,
		"tag_ids":           filter.TagIDs,
		"exclude_tag_ids":   filter.ExcludeTagIDs,
		"trend_id":          filter.TrendID,
		"sort_by":           sortKey,
		"ascending":         filter.SortAscending,
		"limit":             filter.Limit,
		"offset":            filter.Offset,
	})

	db := r.db

	var total int64
	if err := applyBrowseFilters(db.Model(&model.Book{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count books", err)
		return nil, 0, err
	}

	var books []model.Book
	if total == 0 {
		return books, 0, nil
	}

	query := applyBrowseFilters(db.Model(&model.Book{}), filter).
		Select(summarySelect).
		Preload("Genres", func(tx *gorm.DB) *gorm.DB { return tx.Order("genres.name ASC") }).
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.name ASC") }).
		Order(orderClause(sortKey, filter.SortAscending))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&books).Error; err != nil {
		logger.Error("Failed to browse books", err)
		return nil, 0, err
	}

	return books, total, nil
}

func (r *bookRepository) findOne(db *gorm.DB, id uint) (*model.Book, error) {
	var book model.Book
	err := db.Model(&model.Book{}).
		Joins(authorJoin).
		Select(summarySelect).
		Preload("Genres", func(tx *gorm.DB) *gorm.DB { return tx.Order("genres.name ASC") }).
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.name ASC") }).
		Preload("TrendEntries.Trend").
		Where("books.id = ?", id).
		Take(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByID(id uint) (*model.Book, error) {
	return r.findOne(r.db, id)
}

// FindByIDUnscoped 소프트 삭제된 작품 포함 (관리자 영구 삭제용)
func (r *bookRepository) FindByIDUnscoped(id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.Unscoped().First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Create(book *model.Book) error {
	logger.Debug("Creating book in database", map[string]interface{}{
		"title":     book.Title,
		"author_id": book.AuthorID,
	})

	// 장르/태그 행 자체는 건드리지 않고 연결 테이블만 기록
	if err := r.db.Omit("Genres.*", "Tags.*").Create(book).Error; err != nil {
		logger.Error("Failed to create book in database", err, map[string]interface{}{
			"title": book.Title,
		})
		return err
	}
	return nil
}

// Update 기본 필드 저장 + 장르/태그 집합 교체
func (r *bookRepository) Update(book *model.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(book).Select(
			"Title", "Description", "CoverImage", "IsFanfic", "VerseType",
			"OriginType", "Status", "AuthorName", "SourceURL", "UpdatedAt",
		).Updates(book).Error; err != nil {
			return err
		}
		genres := tx.Model(book).Omit("Genres.*").Association("Genres")
		if len(book.Genres) == 0 {
			if err := genres.Clear(); err != nil {
				return err
			}
		} else if err := genres.Replace(book.Genres); err != nil {
			return err
		}
		tags := tx.Model(book).Omit("Tags.*").Association("Tags")
		if len(book.Tags) == 0 {
			return tags.Clear()
		}
		return tags.Replace(book.Tags)
	})
}

func (r *bookRepository) SoftDelete(id uint) error {
	return r.db.Delete(&model.Book{}, id).Error
}

// HardDelete 의존 데이터까지 모두 삭제
func (r *bookRepository) HardDelete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		chapterIDs := tx.Model(&model.Chapter{}).Select("id").Where("book_id = ?", id)
		commentIDs := tx.Model(&model.ChapterComment{}).Select("id").Where("chapter_id IN (?)", chapterIDs)
		reviewIDs := tx.Unscoped().Model(&model.Review{}).Select("id").Where("book_id = ?", id)
		replyIDs := tx.Model(&model.ReviewReply{}).Select("id").Where("review_id IN (?)", reviewIDs)

		steps := []struct {
			value interface{}
			where string
			arg   interface{}
		}{
			{&model.ChapterCommentReaction{}, "comment_id IN (?)", commentIDs},
			{&model.ChapterComment{}, "chapter_id IN (?)", chapterIDs},
			{&model.ReviewReplyReaction{}, "reply_id IN (?)", replyIDs},
			{&model.ReviewReply{}, "review_id IN (?)", reviewIDs},
			{&model.ReviewReaction{}, "review_id IN (?)", reviewIDs},
			{&model.Review{}, "book_id = ?", id},
			{&model.ReadingProgress{}, "book_id = ?", id},
			{&model.Chapter{}, "book_id = ?", id},
			{&model.Arc{}, "book_id = ?", id},
			{&model.BookTrend{}, "book_id = ?", id},
		}
		for _, step := range steps {
			if err := tx.Unscoped().Where(step.where, step.arg).Delete(step.value).Error; err != nil {
				return err
			}
		}

		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM book_tags WHERE book_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&model.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *bookRepository) IncrementViews(id uint, delta int64) error {
	return r.db.Model(&model.Book{}).
		Where("id = ?", id).
		UpdateColumn("total_views", gorm.Expr("total_views + ?", delta)).
		Error
}

// AddViews 버퍼링된 조회수 일괄 반영
func (r *bookRepository) AddViews(deltas map[uint]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, delta := range deltas {
			if delta <= 0 {
				continue
			}
			if err := tx.Unscoped().Model(&model.Book{}).
				Where("id = ?", id).
				UpdateColumn("total_views", gorm.Expr("total_views + ?", delta)).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *bookRepository) BulkCreate(books []model.Book, batchSize int) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(books); start += batchSize {
			end := start + batchSize
			if end > len(books) {
				end = len(books)
			}
			if err := tx.Omit("Genres.*", "Tags.*").Clauses(clause.OnConflict{DoNothing: true}).Create(books[start:end]).Error; err != nil {
				return err
			}
			logger.Info("Imported book batch", map[string]interface{}{
				"from": start,
				"to":   end,
			})
		}
		return nil
	})
}

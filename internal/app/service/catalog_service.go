package service

import (
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
)

type CatalogService interface {
	Browse(query model.BrowseQuery) (*model.BookPage, error)
}

type catalogService struct {
	bookRepo        repository.BookRepository
	defaultPageSize int
	now             func() time.Time
}

func NewCatalogService(bookRepo repository.BookRepository, defaultPageSize int) CatalogService {
	if defaultPageSize <= 0 {
		defaultPageSize = model.DefaultPageSize
	}
	return &catalogService{
		bookRepo:        bookRepo,
		defaultPageSize: defaultPageSize,
		now:             time.Now,
	}
}

// buildFilter 쿼리 원본을 필터로 변환 (잘못된 값은 기본값으로 대체, 에러 없음)
func (s *catalogService) buildFilter(q model.BrowseQuery) (repository.BookFilter, int, int) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	pageNumber := q.PageNumber
	if pageNumber <= 0 {
		pageNumber = 1
	}

	f := repository.BookFilter{
		SearchTerm:      q.SearchTerm,
		MinRating:       q.MinRating,
		GenreIDs:        q.GenreIDs,
		ExcludeGenreIDs: q.ExcludeGenreIDs,
		TagIDs:          q.TagIDs,
		ExcludeTagIDs:   q.ExcludeTagIDs,
		MinReviewCount:  q.MinReviewCount,
		TrendID:         q.TrendID,
		CreatedAfter:    model.ParseTimeRange(q.TimeRange).Since(s.now()),
		SortBy:          repository.ResolveSortKey(q.SortBy),
		SortAscending:   q.IsAscending,
		Limit:           pageSize,
		Offset:          (pageNumber - 1) * pageSize,
	}

	if q.VerseType != "" {
		v := model.ParseVerseType(q.VerseType)
		f.VerseType = &v
	}
	if q.OriginType != "" {
		o := model.ParseOriginType(q.OriginType)
		f.OriginType = &o
	}
	for _, raw := range q.Statuses {
		if status, ok := model.ParseBookStatus(raw); ok {
			f.Statuses = append(f.Statuses, status)
		}
	}

	return f, pageNumber, pageSize
}

func (s *catalogService) Browse(query model.BrowseQuery) (*model.BookPage, error) {
	filter, pageNumber, pageSize := s.buildFilter(query)
	catalogSortKeys.WithLabelValues(filter.SortBy).Inc()

	started := time.Now()
	books, total, err := s.bookRepo.Browse(filter)
	status := "ok"
	if err != nil {
		status = "error"
	}
	catalogBrowseLatency.WithLabelValues(filter.SortBy, status).Observe(time.Since(started).Seconds())

	if err != nil {
		logger.Error("Failed to browse catalog", err, map[string]interface{}{
			"page_number": pageNumber,
			"page_size":   pageSize,
			"sort_by":     filter.SortBy,
		})
		return nil, err
	}

	items := make([]model.BookSummary, 0, len(books))
	for i := range books {
		items = append(items, books[i].ToSummary())
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &model.BookPage{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

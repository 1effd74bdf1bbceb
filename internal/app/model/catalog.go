package model

import "time"

const DefaultPageSize = 24

// BrowseQuery 작품 목록 조회 조건 (쿼리 스트링 원본)
// 열거형 값은 문자열로 받아 서비스에서 관대하게 파싱
type BrowseQuery struct {
	SearchTerm      string   `form:"searchTerm"`
	VerseType       string   `form:"verseType"`
	OriginType      string   `form:"originType"`
	Statuses        []string `form:"statuses"`
	MinRating       *float64 `form:"minRating"`
	GenreIDs        []uint   `form:"-"`
	ExcludeGenreIDs []uint   `form:"-"`
	TagIDs          []uint   `form:"-"`
	ExcludeTagIDs   []uint   `form:"-"`
	MinReviewCount  *int     `form:"minReviewCount"`
	TrendID         *uint    `form:"trendId"`
	TimeRange       string   `form:"timeRange"`
	SortBy          string   `form:"sortBy"`
	IsAscending     bool     `form:"isAscending"`
	PageNumber      int      `form:"pageNumber"`
	PageSize        int      `form:"pageSize"`
}

// BookSummary 목록 항목
type BookSummary struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	CoverImage    string     `json:"coverImage"`
	AuthorID      *uint      `json:"authorId,omitempty"`
	AuthorName    string     `json:"authorName"`
	Status        string     `json:"status"`
	VerseType     string     `json:"verseType"`
	OriginType    string     `json:"originType"`
	IsFanfic      bool       `json:"isFanfic"`
	SourceURL     string     `json:"sourceUrl,omitempty"`
	WordCount     int64      `json:"wordCount"`
	TotalViews    int64      `json:"totalViews"`
	AverageRating float64    `json:"averageRating"`
	ReviewCount   int64      `json:"reviewCount"`
	ChapterCount  int64      `json:"chapterCount"`
	GenreIDs      []uint     `json:"genreIds"`
	GenreNames    []string   `json:"genreNames"`
	TagIDs        []uint     `json:"tagIds"`
	TagNames      []string   `json:"tagNames"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

// BookPage 페이지 응답
type BookPage struct {
	Items      []BookSummary `json:"items"`
	PageNumber int           `json:"pageNumber"`
	PageSize   int           `json:"pageSize"`
	TotalCount int64         `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
}

// BookDetail 작품 상세 (목록 항목 + 트렌드)
type BookDetail struct {
	BookSummary
	Trends []Trend `json:"trends"`
}

// BookInput 작품 등록/수정 요청
type BookInput struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
	IsFanfic    bool   `json:"isFanfic"`
	VerseType   string `json:"verseType"`
	OriginType  string `json:"originType"`
	Status      string `json:"status"`
	AuthorName  string `json:"authorName" binding:"max=100"`
	SourceURL   string `json:"sourceUrl" binding:"omitempty,url"`
	GenreIDs    []uint `json:"genreIds"`
	TagIDs      []uint `json:"tagIds"`
}

// ToSummary 조회된 Book 을 목록 항목으로 변환
func (b *Book) ToSummary() BookSummary {
	s := BookSummary{
		ID:            b.ID,
		Title:         b.Title,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		AuthorID:      b.AuthorID,
		AuthorName:    b.DisplayAuthorName(),
		Status:        string(b.Status),
		VerseType:     string(b.VerseType),
		OriginType:    string(b.OriginType),
		IsFanfic:      b.IsFanfic,
		WordCount:     b.WordCount,
		TotalViews:    b.TotalViews,
		AverageRating: b.AverageRating,
		ReviewCount:   b.ReviewCount,
		ChapterCount:  b.ChapterCount,
		GenreIDs:      make([]uint, 0, len(b.Genres)),
		GenreNames:    make([]string, 0, len(b.Genres)),
		TagIDs:        make([]uint, 0, len(b.Tags)),
		TagNames:      make([]string, 0, len(b.Tags)),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.OriginType == OriginTranslation {
		s.SourceURL = b.SourceURL
	}
	for _, g := range b.Genres {
		s.GenreIDs = append(s.GenreIDs, g.ID)
		s.GenreNames = append(s.GenreNames, g.Name)
	}
	for _, t := range b.Tags {
		s.TagIDs = append(s.TagIDs, t.ID)
		s.TagNames = append(s.TagNames, t.Name)
	}
	return s
}

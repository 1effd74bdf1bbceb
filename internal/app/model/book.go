package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// VerseType 작품 세계관 분류
type VerseType string

const (
	VerseOriginal VerseType = "Original"
	VerseFanfic   VerseType = "Fanfic"
	VerseAU       VerseType = "AU"
)

// OriginType 플랫폼 오리지널 / 번역 구분
type OriginType string

const (
	OriginPlatformOriginal OriginType = "PlatformOriginal"
	OriginTranslation      OriginType = "Translation"
)

// BookStatus 연재 상태
type BookStatus string

const (
	StatusOngoing   BookStatus = "Ongoing"
	StatusPaused    BookStatus = "Paused"
	StatusDropped   BookStatus = "Dropped"
	StatusCompleted BookStatus = "Completed"
)

// TimeRange 작품 등록일 기준 조회 기간
type TimeRange string

const (
	TimeRangeAll      TimeRange = "All"
	TimeRangeWeekly   TimeRange = "Weekly"
	TimeRangeMonth    TimeRange = "Month"
	TimeRangeHalfYear TimeRange = "HalfYear"
	TimeRangeYear     TimeRange = "Year"
)

var (
	verseTypes  = []VerseType{VerseOriginal, VerseFanfic, VerseAU}
	originTypes = []OriginType{OriginPlatformOriginal, OriginTranslation}
	bookStatus  = []BookStatus{StatusOngoing, StatusPaused, StatusDropped, StatusCompleted}
	timeRanges  = []TimeRange{TimeRangeAll, TimeRangeWeekly, TimeRangeMonth, TimeRangeHalfYear, TimeRangeYear}
)

// ParseVerseType never fails: unknown input yields VerseOriginal.
func ParseVerseType(s string) VerseType {
	for _, v := range verseTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v
		}
	}
	return VerseOriginal
}

// ParseOriginType never fails: unknown input yields OriginPlatformOriginal.
func ParseOriginType(s string) OriginType {
	for _, v := range originTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v
		}
	}
	return OriginPlatformOriginal
}

// ParseBookStatus reports ok=false for unknown input so callers can drop it.
func ParseBookStatus(s string) (BookStatus, bool) {
	for _, v := range bookStatus {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, true
		}
	}
	return "", false
}

// ParseTimeRange never fails: unknown input yields TimeRangeAll.
func ParseTimeRange(s string) TimeRange {
	for _, v := range timeRanges {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v
		}
	}
	return TimeRangeAll
}

// Since returns the lower creation-time bound for the range, or nil for All.
func (r TimeRange) Since(now time.Time) *time.Time {
	var t time.Time
	switch r {
	case TimeRangeWeekly:
		t = now.AddDate(0, 0, -7)
	case TimeRangeMonth:
		t = now.AddDate(0, -1, 0)
	case TimeRangeHalfYear:
		t = now.AddDate(0, -6, 0)
	case TimeRangeYear:
		t = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &t
}

// Book 작품
type Book struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Title         string         `gorm:"type:varchar(255);not null;index" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	CoverImage    string         `json:"coverImage"`
	IsFanfic      bool           `gorm:"default:false" json:"isFanfic"`
	VerseType     VerseType      `gorm:"type:varchar(20);default:'Original';index" json:"verseType"`
	OriginType    OriginType     `gorm:"type:varchar(20);default:'PlatformOriginal';index" json:"originType"`
	Status        BookStatus     `gorm:"type:varchar(20);default:'Ongoing';index" json:"status"`
	TotalViews    int64          `gorm:"default:0" json:"totalViews"`
	AverageRating float64        `gorm:"default:0" json:"averageRating"` // 리뷰 변경 시 재계산
	WordCount     int64          `gorm:"default:0" json:"wordCount"`     // 챕터 변경 시 재계산
	AuthorID      *uint          `gorm:"index" json:"authorId,omitempty"`
	AuthorName    string         `gorm:"type:varchar(100)" json:"authorName"` // 명시적 작가명 (번역작 원작자 등)
	SourceURL     string         `json:"sourceUrl,omitempty"`                 // 번역작 원문 주소
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     *time.Time     `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Author       *User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	Genres       []Genre     `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	Tags         []Tag       `gorm:"many2many:book_tags;" json:"tags,omitempty"`
	TrendEntries []BookTrend `gorm:"foreignKey:BookID" json:"-"`

	// 목록 조회 시 계산되는 컬럼
	ResolvedAuthorName string `gorm:"->;-:migration" json:"-"`
	ReviewCount        int64  `gorm:"->;-:migration" json:"-"`
	ChapterCount       int64  `gorm:"->;-:migration" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// DisplayAuthorName 명시적 작가명 우선, 없으면 연결된 사용자 이름
func (b *Book) DisplayAuthorName() string {
	if b.AuthorName != "" {
		return b.AuthorName
	}
	if b.ResolvedAuthorName != "" {
		return b.ResolvedAuthorName
	}
	if b.Author != nil {
		return b.Author.DisplayName
	}
	return ""
}

// BookTrend 트렌드 편성 (편성 시각 포함)
type BookTrend struct {
	BookID  uint      `gorm:"primaryKey" json:"bookId"`
	TrendID uint      `gorm:"primaryKey;index" json:"trendId"`
	AddedAt time.Time `json:"addedAt"`

	Trend Trend `gorm:"foreignKey:TrendID;constraint:OnDelete:CASCADE" json:"trend,omitempty"`
}

func (BookTrend) TableName() string {
	return "book_trends"
}

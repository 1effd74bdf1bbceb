package model

import "time"

// Chapter 챕터 (작품 내 chapter_number 유일)
type Chapter struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	BookID        uint      `gorm:"not null;uniqueIndex:idx_chapter_book_number" json:"bookId"`
	ChapterNumber int       `gorm:"not null;uniqueIndex:idx_chapter_book_number" json:"chapterNumber"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Content       string    `gorm:"type:text" json:"content,omitempty"`
	WordCount     int       `gorm:"default:0" json:"wordCount"`
	ArcID         *uint     `gorm:"index" json:"arcId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Arc  *Arc  `gorm:"foreignKey:ArcID;constraint:OnDelete:SET NULL" json:"arc,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// Arc 목차 구분용 챕터 묶음
type Arc struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	BookID    uint      `gorm:"not null;index" json:"bookId"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Arc) TableName() string {
	return "arcs"
}

// ChapterInput 챕터 생성/수정 요청
type ChapterInput struct {
	Title         string `json:"title" binding:"required,max=255"`
	Content       string `json:"content"`
	ChapterNumber int    `json:"chapterNumber" binding:"required,min=1"`
	ArcID         *uint  `json:"arcId"`
}

type ArcInput struct {
	Title     string `json:"title" binding:"required,max=255"`
	SortOrder int    `json:"sortOrder"`
}

// TableOfContents 목차 조회 응답
type TableOfContents struct {
	BookID   uint             `json:"bookId"`
	Arcs     []Arc            `json:"arcs"`
	Chapters []ChapterListing `json:"chapters"`
}

type ChapterListing struct {
	ID            uint      `json:"id"`
	ChapterNumber int       `json:"chapterNumber"`
	Title         string    `json:"title"`
	WordCount     int       `json:"wordCount"`
	ArcID         *uint     `json:"arcId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

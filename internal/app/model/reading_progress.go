package model

import "time"

// ReadingProgress 사용자별 작품 읽기 진행 상황
type ReadingProgress struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_progress_user_book" json:"userId"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_progress_user_book" json:"bookId"`
	ChapterID uint      `gorm:"not null" json:"chapterId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Book    *Book    `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"chapter,omitempty"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

type ProgressInput struct {
	ChapterID uint `json:"chapterId" binding:"required"`
}

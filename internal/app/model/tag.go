package model

import "time"

// Genre 장르
type Genre struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Genre) TableName() string {
	return "genres"
}

// Tag 작품 태그 (예: "Slow Burn", "Found Family")
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tag) TableName() string {
	return "tags"
}

// Trend 에디터 큐레이션 컬렉션
type Trend struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Image       string    `json:"image"`
	Description string    `gorm:"type:text" json:"description"`
	SortOrder   int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Trend) TableName() string {
	return "trends"
}

// TaxonomyInput 장르/태그 생성·수정 요청
type TaxonomyInput struct {
	Name     string `json:"name" binding:"required,max=50"`
	IsActive *bool  `json:"isActive"`
}

type TrendInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	IsActive    *bool  `json:"isActive"`
	Image       string `json:"image"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

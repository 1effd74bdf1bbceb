package model

import (
	"time"

	"gorm.io/gorm"
)

// Review 작품 리뷰 (book_id, user_id 당 하나)
type Review struct {
	ID                     uint           `gorm:"primarykey" json:"id"`
	BookID                 uint           `gorm:"not null;uniqueIndex:idx_review_book_user" json:"bookId"`
	UserID                 uint           `gorm:"not null;uniqueIndex:idx_review_book_user;index" json:"userId"`
	CharacterAccuracy      int            `gorm:"not null" json:"characterAccuracy"`
	ChemistryRelationships int            `gorm:"not null" json:"chemistryRelationships"`
	PlotCreativity         int            `gorm:"not null" json:"plotCreativity"`
	CanonIntegration       int            `gorm:"not null" json:"canonIntegration"`
	EmotionalDamage        int            `gorm:"not null" json:"emotionalDamage"` // 1=최악(파괴됨), 5=무해
	Rating                 float64        `gorm:"not null" json:"rating"`          // 다섯 항목 종합 점수
	Content                string         `gorm:"type:text" json:"content"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewReply 리뷰 답글 (단일 depth)
type ReviewReply struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"reviewId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (ReviewReply) TableName() string {
	return "review_replies"
}

// ReviewInput 리뷰 작성/수정 요청 (항목별 0~5, emotionalDamage 1~5)
type ReviewInput struct {
	CharacterAccuracy      int    `json:"characterAccuracy" binding:"min=0,max=5"`
	ChemistryRelationships int    `json:"chemistryRelationships" binding:"min=0,max=5"`
	PlotCreativity         int    `json:"plotCreativity" binding:"min=0,max=5"`
	CanonIntegration       int    `json:"canonIntegration" binding:"min=0,max=5"`
	EmotionalDamage        int    `json:"emotionalDamage" binding:"min=1,max=5"`
	Content                string `json:"content" binding:"max=20000"`
}

type ReplyInput struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// ReviewView 리뷰 조회 응답
type ReviewView struct {
	ID                     uint        `json:"id"`
	BookID                 uint        `json:"bookId"`
	UserID                 uint        `json:"userId"`
	UserName               string      `json:"userName"`
	CharacterAccuracy      int         `json:"characterAccuracy"`
	ChemistryRelationships int         `json:"chemistryRelationships"`
	PlotCreativity         int         `json:"plotCreativity"`
	CanonIntegration       int         `json:"canonIntegration"`
	EmotionalDamage        int         `json:"emotionalDamage"`
	Rating                 float64     `json:"rating"`
	Content                string      `json:"content"`
	Likes                  int         `json:"likes"`
	Dislikes               int         `json:"dislikes"`
	MyReaction             string      `json:"myReaction,omitempty"` // like | dislike
	Replies                []ReplyView `json:"replies"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

type ReplyView struct {
	ID         uint      `json:"id"`
	ReviewID   uint      `json:"reviewId"`
	UserID     uint      `json:"userId"`
	UserName   string    `json:"userName"`
	Content    string    `json:"content"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	MyReaction string    `json:"myReaction,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

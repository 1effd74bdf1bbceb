package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser   UserRole = "user"   // 일반 독자
	RoleAuthor UserRole = "author" // 작가
	RoleAdmin  UserRole = "admin"  // 관리자
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(100);not null" json:"displayName"` // 작가명/닉네임
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Caller 요청자 정보 (토큰 검증은 미들웨어 책임)
type Caller struct {
	UserID uint
	Role   UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanPublish 작품/챕터 작성 가능 여부
func (c Caller) CanPublish() bool {
	return c.Role == RoleAuthor || c.Role == RoleAdmin
}

// RegisterInput 회원가입 요청 (role 은 user/author 만 허용)
type RegisterInput struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	DisplayName string   `json:"displayName" binding:"required,max=100"`
	Role        UserRole `json:"role" binding:"omitempty,oneof=user author"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileInput 내 정보 수정 (현재는 표시 이름만)
type ProfileInput struct {
	DisplayName string `json:"displayName" binding:"required,max=100"`
}

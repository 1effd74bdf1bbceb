package model

import "time"

const (
	DeletedCommentAuthor  = "Deleted"
	DeletedCommentContent = "[deleted]"
)

// ChapterComment 챕터 댓글 (parent_id 로 트리 구성)
// 삭제 시 is_deleted 만 표시하여 하위 댓글 연결 유지
type ChapterComment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ChapterID uint      `gorm:"not null;index" json:"chapterId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ParentID  *uint     `gorm:"index" json:"parentId,omitempty"`
	IsDeleted bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ChapterComment) TableName() string {
	return "chapter_comments"
}

type CommentInput struct {
	Content  string `json:"content" binding:"required,max=5000"`
	ParentID *uint  `json:"parentId"`
}

type CommentUpdateInput struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type CommentReactionInput struct {
	Value int `json:"value" binding:"required,oneof=1 -1"`
}

type ReviewReactionInput struct {
	Type string `json:"type" binding:"required,reaction"`
}

// CommentNode 댓글 트리 노드
type CommentNode struct {
	ID         uint          `json:"id"`
	ChapterID  uint          `json:"chapterId"`
	ParentID   *uint         `json:"parentId,omitempty"`
	UserID     uint          `json:"userId"`
	UserName   string        `json:"userName"`
	Content    string        `json:"content"`
	IsDeleted  bool          `json:"isDeleted"`
	Likes      int           `json:"likes"`
	Dislikes   int           `json:"dislikes"`
	MyReaction ReactionValue `json:"myReaction"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	Replies    []CommentNode `json:"replies"`
}

const (
	CommentEventCreated = "comment.created"
	CommentEventUpdated = "comment.updated"
	CommentEventDeleted = "comment.deleted"
)

// CommentEvent 챕터 실시간 피드로 전달되는 이벤트
type CommentEvent struct {
	Type       string       `json:"type"`
	ChapterID  uint         `json:"chapterId"`
	Comment    *CommentNode `json:"comment,omitempty"`
	CommentIDs []uint       `json:"commentIds,omitempty"`
}

package model

import (
	"strings"
	"time"
)

// ReactionValue +1 좋아요, -1 싫어요
type ReactionValue int8

const (
	ReactionNone    ReactionValue = 0
	ReactionLike    ReactionValue = 1
	ReactionDislike ReactionValue = -1
)

const (
	ReactionTypeLike    = "like"
	ReactionTypeDislike = "dislike"
)

func (v ReactionValue) Valid() bool {
	return v == ReactionLike || v == ReactionDislike
}

// Type 리뷰/답글 API 표기 ("like" / "dislike" / "")
func (v ReactionValue) Type() string {
	switch v {
	case ReactionLike:
		return ReactionTypeLike
	case ReactionDislike:
		return ReactionTypeDislike
	default:
		return ""
	}
}

// ParseReactionType maps "like"/"dislike" (case-insensitive) to a value.
func ParseReactionType(s string) (ReactionValue, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ReactionTypeLike:
		return ReactionLike, true
	case ReactionTypeDislike:
		return ReactionDislike, true
	default:
		return ReactionNone, false
	}
}

// ReviewReaction 리뷰 반응 (review_id, user_id 당 하나)
type ReviewReaction struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	ReviewID  uint          `gorm:"not null;uniqueIndex:idx_review_reaction_user" json:"reviewId"`
	UserID    uint          `gorm:"not null;uniqueIndex:idx_review_reaction_user" json:"userId"`
	Value     ReactionValue `gorm:"type:smallint;not null" json:"value"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (ReviewReaction) TableName() string {
	return "review_reactions"
}

// ReviewReplyReaction 리뷰 답글 반응
type ReviewReplyReaction struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	ReplyID   uint          `gorm:"not null;uniqueIndex:idx_reply_reaction_user" json:"replyId"`
	UserID    uint          `gorm:"not null;uniqueIndex:idx_reply_reaction_user" json:"userId"`
	Value     ReactionValue `gorm:"type:smallint;not null" json:"value"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (ReviewReplyReaction) TableName() string {
	return "review_reply_reactions"
}

// ChapterCommentReaction 챕터 댓글 반응
type ChapterCommentReaction struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	CommentID uint          `gorm:"not null;uniqueIndex:idx_comment_reaction_user" json:"commentId"`
	UserID    uint          `gorm:"not null;uniqueIndex:idx_comment_reaction_user" json:"userId"`
	Value     ReactionValue `gorm:"type:smallint;not null" json:"value"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (ChapterCommentReaction) TableName() string {
	return "chapter_comment_reactions"
}

// ReactionVote 집계용 반응 한 건
type ReactionVote struct {
	ContentID uint
	UserID    uint
	Value     ReactionValue
}

// ReactionSummary 반응 토글 결과
type ReactionSummary struct {
	ContentID  uint          `json:"contentId"`
	Likes      int           `json:"likes"`
	Dislikes   int           `json:"dislikes"`
	MyReaction ReactionValue `json:"myReaction"`
	MyType     string        `json:"myReactionType,omitempty"`
}

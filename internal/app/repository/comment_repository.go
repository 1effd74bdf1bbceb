package repository

import (
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type CommentRepository interface {
	ListByChapter(chapterID uint) ([]model.ChapterComment, error)
	FindByID(id uint) (*model.ChapterComment, error)
	Create(comment *model.ChapterComment) error
	UpdateContent(id uint, content string) error
	SoftDeleteCascade(id uint) ([]uint, error)
	ToggleReaction(commentID, userID uint, value model.ReactionValue) (model.ReactionValue, error)
	ListReactions(commentIDs []uint) ([]model.ReactionVote, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByChapter 작성 순서대로 (삭제 표시된 댓글 포함)
func (r *commentRepository) ListByChapter(chapterID uint) ([]model.ChapterComment, error) {
	var comments []model.ChapterComment
	err := r.db.
		Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Where("chapter_id = ?", chapterID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to list chapter comments", err, map[string]interface{}{
			"chapter_id": chapterID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) FindByID(id uint) (*model.ChapterComment, error) {
	var comment model.ChapterComment
	if err := r.db.Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(comment *model.ChapterComment) error {
	logger.Debug("Creating chapter comment", map[string]interface{}{
		"chapter_id": comment.ChapterID,
		"user_id":    comment.UserID,
		"parent_id":  comment.ParentID,
	})
	return r.db.Omit("User", "Chapter").Create(comment).Error
}

func (r *commentRepository) UpdateContent(id uint, content string) error {
	result := r.db.Model(&model.ChapterComment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type commentLink struct {
	ID       uint
	ParentID *uint
}

// SoftDeleteCascade 대상 댓글과 모든 하위 댓글에 삭제 표시, 표시된 id 목록 반환
// parent 순환이 있어도 방문 집합으로 종료 보장
func (r *commentRepository) SoftDeleteCascade(id uint) ([]uint, error) {
	var marked []uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var root model.ChapterComment
		if err := lockForUpdate(tx).Select("id", "chapter_id").First(&root, id).Error; err != nil {
			return err
		}

		var links []commentLink
		if err := tx.Model(&model.ChapterComment{}).
			Select("id", "parent_id").
			Where("chapter_id = ?", root.ChapterID).
			Order("id ASC").
			Scan(&links).Error; err != nil {
			return err
		}

		children := make(map[uint][]uint, len(links))
		for _, l := range links {
			if l.ParentID != nil {
				children[*l.ParentID] = append(children[*l.ParentID], l.ID)
			}
		}

		visited := map[uint]bool{root.ID: true}
		queue := []uint{root.ID}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			marked = append(marked, current)
			for _, child := range children[current] {
				if !visited[child] {
					visited[child] = true
					queue = append(queue, child)
				}
			}
		}

		return tx.Model(&model.ChapterComment{}).
			Where("id IN ?", marked).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Chapter comment thread marked deleted", map[string]interface{}{
		"comment_id": id,
		"affected":   len(marked),
	})
	return marked, nil
}

func (r *commentRepository) ToggleReaction(commentID, userID uint, value model.ReactionValue) (model.ReactionValue, error) {
	var result model.ReactionValue
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = toggleReaction(tx, commentReactionTable, commentID, userID, value)
		return err
	})
	return result, err
}

func (r *commentRepository) ListReactions(commentIDs []uint) ([]model.ReactionVote, error) {
	return listReactionVotes(r.db, commentReactionTable, commentIDs)
}

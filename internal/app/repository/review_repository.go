package repository

import (
	"errors"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/ikkim/fictionhub-backend/pkg/util"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	ListByBook(bookID uint) ([]model.Review, error)
	FindByID(id uint) (*model.Review, error)
	Upsert(review *model.Review) (created bool, err error)
	Delete(id uint) error
	CountByBook(bookID uint) (int64, error)

	ListReplies(reviewIDs []uint) ([]model.ReviewReply, error)
	FindReplyByID(id uint) (*model.ReviewReply, error)
	CreateReply(reply *model.ReviewReply) error
	UpdateReply(id uint, content string) error
	DeleteReply(id uint) error

	ToggleReviewReaction(reviewID, userID uint, value model.ReactionValue) (model.ReactionValue, error)
	ToggleReplyReaction(replyID, userID uint, value model.ReactionValue) (model.ReactionValue, error)
	ListReviewReactions(reviewIDs []uint) ([]model.ReactionVote, error)
	ListReplyReactions(replyIDs []uint) ([]model.ReactionVote, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func withUnscopedUser(tx *gorm.DB) *gorm.DB {
	return tx.Unscoped()
}

// ListByBook 최신순
func (r *reviewRepository) ListByBook(bookID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.
		Preload("User", withUnscopedUser).
		Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews", err, map[string]interface{}{
			"book_id": bookID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User", withUnscopedUser).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) CountByBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// recomputeAverageRating 남아있는 리뷰 평균을 소수 둘째 자리로 반영
func recomputeAverageRating(tx *gorm.DB, bookID uint) (float64, error) {
	var avg float64
	if err := tx.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("book_id = ?", bookID).
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	avg = util.RoundTo(avg, 2)

	if err := tx.Unscoped().Model(&model.Book{}).Where("id = ?", bookID).Updates(map[string]interface{}{
		"average_rating": avg,
		"updated_at":     time.Now(),
	}).Error; err != nil {
		return 0, err
	}
	return avg, nil
}

// Upsert (book_id, user_id) 기준 생성 또는 수정 후 평균 평점 재계산
func (r *reviewRepository) Upsert(review *model.Review) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Review
		err := lockForUpdate(tx.Unscoped()).
			Where("book_id = ? AND user_id = ?", review.BookID, review.UserID).
			Take(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit("User", "Book").Create(review).Error; err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			review.ID = existing.ID
			review.CreatedAt = existing.CreatedAt
			if err := tx.Unscoped().Model(&model.Review{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
				"character_accuracy":      review.CharacterAccuracy,
				"chemistry_relationships": review.ChemistryRelationships,
				"plot_creativity":         review.PlotCreativity,
				"canon_integration":       review.CanonIntegration,
				"emotional_damage":        review.EmotionalDamage,
				"rating":                  review.Rating,
				"content":                 review.Content,
				"updated_at":              time.Now(),
				"deleted_at":              nil,
			}).Error; err != nil {
				return err
			}
		}

		_, err = recomputeAverageRating(tx, review.BookID)
		return err
	})
	if err != nil {
		logger.Error("Failed to upsert review", err, map[string]interface{}{
			"book_id": review.BookID,
			"user_id": review.UserID,
		})
		return false, err
	}
	return created, nil
}

// Delete 답글 반응 -> 답글 -> 리뷰 반응 -> 리뷰 순서로 삭제 후 평균 재계산
func (r *reviewRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var review model.Review
		if err := lockForUpdate(tx).Select("id", "book_id").First(&review, id).Error; err != nil {
			return err
		}

		var replyIDs []uint
		if err := tx.Model(&model.ReviewReply{}).Where("review_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		if err := deleteReactions(tx, replyReactionTable, replyIDs); err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewReply{}).Error; err != nil {
			return err
		}
		if err := deleteReactions(tx, reviewReactionTable, []uint{id}); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.Review{}, id).Error; err != nil {
			return err
		}

		avg, err := recomputeAverageRating(tx, review.BookID)
		if err != nil {
			return err
		}
		logger.Info("Review deleted", map[string]interface{}{
			"review_id":      id,
			"book_id":        review.BookID,
			"replies":        len(replyIDs),
			"average_rating": avg,
		})
		return nil
	})
}

// ListReplies 리뷰별 답글 (작성 순)
func (r *reviewRepository) ListReplies(reviewIDs []uint) ([]model.ReviewReply, error) {
	replies := []model.ReviewReply{}
	if len(reviewIDs) == 0 {
		return replies, nil
	}
	err := r.db.
		Preload("User", withUnscopedUser).
		Where("review_id IN ?", reviewIDs).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

func (r *reviewRepository) FindReplyByID(id uint) (*model.ReviewReply, error) {
	var reply model.ReviewReply
	if err := r.db.Preload("User", withUnscopedUser).First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *reviewRepository) CreateReply(reply *model.ReviewReply) error {
	return r.db.Omit("User").Create(reply).Error
}

func (r *reviewRepository) UpdateReply(id uint, content string) error {
	result := r.db.Model(&model.ReviewReply{}).Where("id = ?", id).Updates(map[string]interface{}{
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

// DeleteReply 답글과 답글 반응 삭제
func (r *reviewRepository) DeleteReply(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteReactions(tx, replyReactionTable, []uint{id}); err != nil {
			return err
		}
		result := tx.Delete(&model.ReviewReply{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *reviewRepository) ToggleReviewReaction(reviewID, userID uint, value model.ReactionValue) (model.ReactionValue, error) {
	var result model.ReactionValue
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = toggleReaction(tx, reviewReactionTable, reviewID, userID, value)
		return err
	})
	return result, err
}

func (r *reviewRepository) ToggleReplyReaction(replyID, userID uint, value model.ReactionValue) (model.ReactionValue, error) {
	var result model.ReactionValue
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = toggleReaction(tx, replyReactionTable, replyID, userID, value)
		return err
	})
	return result, err
}

func (r *reviewRepository) ListReviewReactions(reviewIDs []uint) ([]model.ReactionVote, error) {
	return listReactionVotes(r.db, reviewReactionTable, reviewIDs)
}

func (r *reviewRepository) ListReplyReactions(replyIDs []uint) ([]model.ReactionVote, error) {
	return listReactionVotes(r.db, replyReactionTable, replyIDs)
}

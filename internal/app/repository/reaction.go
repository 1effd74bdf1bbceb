package repository

import (
	"errors"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reactionTable 반응 테이블 메타 (테이블명, 대상 컬럼)
type reactionTable struct {
	name   string
	column string
}

var (
	reviewReactionTable  = reactionTable{name: "review_reactions", column: "review_id"}
	replyReactionTable   = reactionTable{name: "review_reply_reactions", column: "reply_id"}
	commentReactionTable = reactionTable{name: "chapter_comment_reactions", column: "comment_id"}
)

type reactionRow struct {
	ID    uint
	Value model.ReactionValue
}

// lockForUpdate postgres 에서만 행 잠금 (sqlite 는 단일 writer)
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// toggleReaction 같은 값이면 취소, 다른 값이면 교체, 없으면 생성
// 반드시 트랜잭션 안에서 호출. 반환값은 토글 이후 사용자의 반응
func toggleReaction(tx *gorm.DB, table reactionTable, contentID, userID uint, value model.ReactionValue) (model.ReactionValue, error) {
	var existing reactionRow
	err := lockForUpdate(tx.Table(table.name)).
		Select("id", "value").
		Where(table.column+" = ? AND user_id = ?", contentID, userID).
		Take(&existing).Error

	now := time.Now()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := map[string]interface{}{
			table.column: contentID,
			"user_id":    userID,
			"value":      value,
			"created_at": now,
			"updated_at": now,
		}
		// 동시 요청으로 먼저 생성된 경우 값만 덮어씀
		if err := tx.Table(table.name).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: table.column}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(row).Error; err != nil {
			return model.ReactionNone, err
		}
		return value, nil
	case err != nil:
		return model.ReactionNone, err
	case existing.Value == value:
		if err := tx.Exec("DELETE FROM "+table.name+" WHERE id = ?", existing.ID).Error; err != nil {
			return model.ReactionNone, err
		}
		return model.ReactionNone, nil
	default:
		if err := tx.Table(table.name).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"value":      value,
			"updated_at": now,
		}).Error; err != nil {
			return model.ReactionNone, err
		}
		return value, nil
	}
}

// listReactionVotes 대상 목록의 반응 전체 조회
func listReactionVotes(db *gorm.DB, table reactionTable, contentIDs []uint) ([]model.ReactionVote, error) {
	votes := []model.ReactionVote{}
	if len(contentIDs) == 0 {
		return votes, nil
	}
	err := db.Table(table.name).
		Select(table.column+" AS content_id, user_id, value").
		Where(table.column+" IN ?", contentIDs).
		Order("id ASC").
		Scan(&votes).Error
	return votes, err
}

// deleteReactions 대상 목록의 반응 일괄 삭제
func deleteReactions(tx *gorm.DB, table reactionTable, contentIDs []uint) error {
	if len(contentIDs) == 0 {
		return nil
	}
	return tx.Exec("DELETE FROM "+table.name+" WHERE "+table.column+" IN ?", contentIDs).Error
}

package repository

import (
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Upsert(progress *model.ReadingProgress) error
	ListByUser(userID uint) ([]model.ReadingProgress, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Upsert (user_id, book_id) 당 한 행, 마지막 챕터만 갱신
func (r *progressRepository) Upsert(progress *model.ReadingProgress) error {
	now := time.Now()
	progress.UpdatedAt = now
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	err := r.db.Omit("Book", "Chapter").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"chapter_id", "updated_at"}),
	}).Create(progress).Error
	if err != nil {
		return err
	}

	var stored model.ReadingProgress
	if err := r.db.
		Where("user_id = ? AND book_id = ?", progress.UserID, progress.BookID).
		Take(&stored).Error; err != nil {
		return err
	}
	*progress = stored
	return nil
}

// ListByUser 최근 읽은 순
func (r *progressRepository) ListByUser(userID uint) ([]model.ReadingProgress, error) {
	progress := []model.ReadingProgress{}
	err := r.db.
		Preload("Book").
		Preload("Chapter", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "book_id", "chapter_number", "title", "word_count", "arc_id", "created_at", "updated_at")
		}).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&progress).Error
	return progress, err
}

package repository

import (
	"errors"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrChapterNumberConflict 같은 작품에 동일한 챕터 번호 존재
var ErrChapterNumberConflict = errors.New("chapter number already used in book")

type ChapterRepository interface {
	ListByBook(bookID uint) ([]model.Chapter, error)
	FindByID(id uint) (*model.Chapter, error)
	Create(chapter *model.Chapter) error
	Update(chapter *model.Chapter) error
	Delete(id uint) error
	ListArcs(bookID uint) ([]model.Arc, error)
	FindArcByID(id uint) (*model.Arc, error)
	CreateArc(arc *model.Arc) error
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

// ListByBook 목차용 (본문 제외)
func (r *chapterRepository) ListByBook(bookID uint) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.db.
		Select("id", "book_id", "chapter_number", "title", "word_count", "arc_id", "created_at", "updated_at").
		Where("book_id = ?", bookID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	if err != nil {
		logger.Error("Failed to list chapters", err, map[string]interface{}{
			"book_id": bookID,
		})
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepository) FindByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := r.db.Preload("Arc").First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func ensureChapterNumberFree(tx *gorm.DB, bookID uint, number int, exceptID uint) error {
	var count int64
	q := tx.Model(&model.Chapter{}).Where("book_id = ? AND chapter_number = ?", bookID, number)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrChapterNumberConflict
	}
	return nil
}

// recomputeBookWordCount 챕터 단어 수 합계를 작품에 반영
func recomputeBookWordCount(tx *gorm.DB, bookID uint) error {
	var total int64
	if err := tx.Model(&model.Chapter{}).
		Select("COALESCE(SUM(word_count), 0)").
		Where("book_id = ?", bookID).
		Scan(&total).Error; err != nil {
		return err
	}
	now := time.Now()
	return tx.Unscoped().Model(&model.Book{}).Where("id = ?", bookID).Updates(map[string]interface{}{
		"word_count": total,
		"updated_at": now,
	}).Error
}

func (r *chapterRepository) Create(chapter *model.Chapter) error {
	logger.Debug("Creating chapter in database", map[string]interface{}{
		"book_id":        chapter.BookID,
		"chapter_number": chapter.ChapterNumber,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureChapterNumberFree(tx, chapter.BookID, chapter.ChapterNumber, 0); err != nil {
			return err
		}
		if err := tx.Omit("Book", "Arc").Create(chapter).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrChapterNumberConflict
			}
			return err
		}
		return recomputeBookWordCount(tx, chapter.BookID)
	})
}

func (r *chapterRepository) Update(chapter *model.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureChapterNumberFree(tx, chapter.BookID, chapter.ChapterNumber, chapter.ID); err != nil {
			return err
		}
		if err := tx.Model(chapter).
			Select("Title", "Content", "ChapterNumber", "WordCount", "ArcID", "UpdatedAt").
			Updates(chapter).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrChapterNumberConflict
			}
			return err
		}
		return recomputeBookWordCount(tx, chapter.BookID)
	})
}

// Delete 챕터와 딸린 댓글/반응/읽기 기록 삭제
func (r *chapterRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var chapter model.Chapter
		if err := tx.Select("id", "book_id").First(&chapter, id).Error; err != nil {
			return err
		}

		var commentIDs []uint
		if err := tx.Model(&model.ChapterComment{}).Where("chapter_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if err := deleteReactions(tx, commentReactionTable, commentIDs); err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", id).Delete(&model.ChapterComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", id).Delete(&model.ReadingProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Chapter{}, id).Error; err != nil {
			return err
		}
		return recomputeBookWordCount(tx, chapter.BookID)
	})
}

func (r *chapterRepository) ListArcs(bookID uint) ([]model.Arc, error) {
	var arcs []model.Arc
	err := r.db.Where("book_id = ?", bookID).Order("sort_order ASC, id ASC").Find(&arcs).Error
	return arcs, err
}

func (r *chapterRepository) FindArcByID(id uint) (*model.Arc, error) {
	var arc model.Arc
	if err := r.db.First(&arc, id).Error; err != nil {
		return nil, err
	}
	return &arc, nil
}

func (r *chapterRepository) CreateArc(arc *model.Arc) error {
	return r.db.Create(arc).Error
}

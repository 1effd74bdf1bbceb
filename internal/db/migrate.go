package db

import (
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models 마이그레이션 대상 (테스트 DB 와 공유)
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Genre{},
		&model.Tag{},
		&model.Trend{},
		&model.Book{},
		&model.BookTrend{},
		&model.Arc{},
		&model.Chapter{},
		&model.Review{},
		&model.ReviewReaction{},
		&model.ReviewReply{},
		&model.ReviewReplyReaction{},
		&model.ChapterComment{},
		&model.ChapterCommentReaction{},
		&model.ReadingProgress{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedReferenceData(DB); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

var (
	defaultGenres = []string{
		"Fantasy", "Romance", "Science Fiction", "Mystery", "Horror",
		"Adventure", "Drama", "Comedy", "Slice of Life", "Thriller",
	}
	defaultTags = []string{
		"Slow Burn", "Enemies to Lovers", "Found Family", "Time Travel", "Hurt/Comfort",
		"Fix-It", "Canon Divergence", "Reincarnation", "Magic School", "Angst",
	}
)

// SeedReferenceData 장르/태그 기본 데이터 (비어있을 때만)
func SeedReferenceData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Genre{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		genres := make([]model.Genre, 0, len(defaultGenres))
		for _, name := range defaultGenres {
			genres = append(genres, model.Genre{Name: name, IsActive: true})
		}
		if err := db.Create(&genres).Error; err != nil {
			logger.Error("Failed to seed genres", err)
			return err
		}
		logger.Info("Genres seeded", map[string]interface{}{"count": len(genres)})
	}

	if err := db.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		tags := make([]model.Tag, 0, len(defaultTags))
		for _, name := range defaultTags {
			tags = append(tags, model.Tag{Name: name, IsActive: true})
		}
		if err := db.Create(&tags).Error; err != nil {
			logger.Error("Failed to seed tags", err)
			return err
		}
		logger.Info("Tags seeded", map[string]interface{}{"count": len(tags)})
	}

	return nil
}

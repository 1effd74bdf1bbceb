package service

import (
	"context"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/ikkim/fictionhub-backend/pkg/redis"
)

// ViewCounter records book detail views
type ViewCounter interface {
	Record(bookID uint)
	Flush() (int, error)
}

type viewCounter struct {
	bookRepo repository.BookRepository
	buffered bool
	timeout  time.Duration
}

// NewViewCounter buffered=true 이면 Redis 해시에 모았다가 스케줄러가 반영
func NewViewCounter(bookRepo repository.BookRepository, buffered bool) ViewCounter {
	return &viewCounter{
		bookRepo: bookRepo,
		buffered: buffered,
		timeout:  2 * time.Second,
	}
}

func (v *viewCounter) Record(bookID uint) {
	if v.buffered {
		ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
		defer cancel()
		err := redis.IncrementBookView(ctx, bookID)
		if err == nil {
			return
		}
		logger.Warn("Falling back to direct view increment", map[string]interface{}{
			"book_id": bookID,
			"error":   err.Error(),
		})
	}

	if err := v.bookRepo.IncrementViews(bookID, 1); err != nil {
		logger.Error("Failed to increment book views", err, map[string]interface{}{
			"book_id": bookID,
		})
	}
}

// Flush 버퍼된 조회수를 DB 에 반영, 반영한 작품 수 반환
func (v *viewCounter) Flush() (int, error) {
	if !v.buffered {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deltas, err := redis.DrainBookViews(ctx)
	if err != nil {
		return 0, err
	}
	if len(deltas) == 0 {
		return 0, nil
	}

	if err := v.bookRepo.AddViews(deltas); err != nil {
		if restoreErr := redis.RestoreBookViews(ctx, deltas); restoreErr != nil {
			logger.Error("Failed to restore drained views", restoreErr, map[string]interface{}{
				"books": len(deltas),
			})
		}
		return 0, err
	}

	logger.Info("Flushed buffered book views", map[string]interface{}{
		"books": len(deltas),
	})
	return len(deltas), nil
}

package scheduler

import (
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ViewFlushScheduler Redis 에 모인 조회수를 주기적으로 DB 에 반영
type ViewFlushScheduler struct {
	cron     *cron.Cron
	schedule string
	views    service.ViewCounter
}

// NewViewFlushScheduler schedule 은 cron 표현식 ("@every 1m", "*/5 * * * *" 등)
func NewViewFlushScheduler(views service.ViewCounter, schedule string) *ViewFlushScheduler {
	return &ViewFlushScheduler{
		cron:     cron.New(),
		schedule: schedule,
		views:    views,
	}
}

// Start 스케줄러 시작
func (s *ViewFlushScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for view flush", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("View flush scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *ViewFlushScheduler) run() {
	flushed, err := s.views.Flush()
	if err != nil {
		logger.Error("Failed to flush buffered views", err)
		return
	}
	if flushed > 0 {
		logger.Debug("Scheduled view flush finished", map[string]interface{}{
			"books": flushed,
		})
	}
}

// Stop 진행 중인 작업이 끝날 때까지 기다린 뒤 마지막으로 한 번 더 반영
func (s *ViewFlushScheduler) Stop() {
	logger.Info("Stopping view flush scheduler...", nil)
	<-s.cron.Stop().Done()
	s.run()
	logger.Info("View flush scheduler stopped", nil)
}

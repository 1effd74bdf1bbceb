package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/fictionhub-backend/config"
	appLogger "github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	pingTimeout        = 5 * time.Second
)

var DB *gorm.DB

// gormWriter routes gorm's own log lines (slow queries, driver errors) into the app logger
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	appLogger.Warn("gorm", appLogger.Fields{"detail": msg})
}

func newGormLogger() logger.Interface {
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Initialize opens the postgres pool described by cfg and verifies it with a ping
func Initialize(cfg *config.DatabaseConfig) error {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return fmt.Errorf("open database %s@%s: %w", cfg.DBName, cfg.Host, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("ping database %s@%s: %w", cfg.DBName, cfg.Host, err)
	}

	DB = conn
	appLogger.Info("Database ready", appLogger.Fields{
		"host":              cfg.Host,
		"database":          cfg.DBName,
		"max_open_conns":    cfg.MaxOpenConns,
		"conn_max_lifetime": cfg.ConnMaxLifetime.String(),
	})
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	DB = nil
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}

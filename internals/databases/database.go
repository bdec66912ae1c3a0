package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/avast/retry-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"masjidfinder_backend/internals/configs"
)

var DB *gorm.DB

const (
	connectAttempts = 5
	connectDelay    = 500 * time.Millisecond
	connectMaxDelay = 5 * time.Second
)

// ConnectDB: buka koneksi + ping, dengan retry backoff (DB sering belum siap saat deploy).
func ConnectDB() error {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	var db *gorm.DB
	err := retry.Do(
		func() error {
			conn, err := gorm.Open(postgres.New(postgres.Config{
				DSN:                  configs.DSN(),
				PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
			}), &gorm.Config{
				Logger:         configs.NewGormLogger(),
				TranslateError: true,
			})
			if err != nil {
				return err
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := sqlDB.PingContext(ctx); err != nil {
				_ = sqlDB.Close()
				return err
			}
			db = conn
			return nil
		},
		retry.Attempts(connectAttempts),
		retry.Delay(connectDelay),
		retry.MaxDelay(connectMaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[WARN] DB connect retry %d: %v", n+1, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	DB = db
	log.Println("✅ DB connected.")
	return nil
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[WARN] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Ping dipakai /api/health.
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("db not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

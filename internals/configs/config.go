package configs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // driver "postgres" untuk koneksi seeder
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret            string
	AppEnv               string
	Port                 string
	DatabaseURL          string
	RedisURL             string
	MasjidCacheTTL       time.Duration
	CORSOrigins          []string
	CORSAllowVercel      bool
	BlacklistCleanupSpec string
	SeedMasjidsFile      string
)

const (
	defaultPort            = "5000"
	defaultCleanupSpec     = "@every 1h"
	defaultMasjidCacheTTL  = 60 * time.Second
	defaultSeedMasjidsFile = "internals/seeds/masjids/masjids/data_masjids.json"
	defaultCORSOrigins     = "http://localhost:3000"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AppEnv = strings.ToLower(GetEnv("APP_ENV", GetEnv("NODE_ENV", "production")))
	Port = GetEnv("PORT", defaultPort)
	DatabaseURL = GetEnv("DATABASE_URL")
	RedisURL = GetEnv("REDIS_URL")
	MasjidCacheTTL = getDuration("MASJID_CACHE_TTL", defaultMasjidCacheTTL)
	CORSOrigins = splitList(GetEnv("CORS_ORIGINS", defaultCORSOrigins))
	CORSAllowVercel = getBool("CORS_ALLOW_VERCEL", true)
	BlacklistCleanupSpec = GetEnv("BLACKLIST_CLEANUP_SPEC", defaultCleanupSpec)
	SeedMasjidsFile = GetEnv("SEED_MASJIDS_FILE", defaultSeedMasjidsFile)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
	if RedisURL == "" {
		log.Println("⚠️ REDIS_URL kosong, cache masjid dimatikan")
	}
}

// Validate: konfigurasi wajib sebelum server jalan.
func Validate() error {
	if strings.TrimSpace(JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if _, err := strconv.Atoi(Port); err != nil {
		return fmt.Errorf("invalid PORT %q", Port)
	}
	return nil
}

func IsDevelopment() bool {
	return AppEnv == "development" || AppEnv == "dev"
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(GetEnv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(GetEnv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func splitList(raw string) []string {
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DSN: DATABASE_URL kalau ada, kalau tidak dirakit dari DB_*.
func DSN() string {
	if DatabaseURL != "" {
		return DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(GetEnv("DB_USER"), GetEnv("DB_PASSWORD")),
		Host:   GetEnv("DB_HOST", "localhost") + ":" + GetEnv("DB_PORT", "5432"),
		Path:   "/" + GetEnv("DB_NAME"),
	}
	q := url.Values{}
	q.Set("sslmode", GetEnv("DB_SSLMODE", "require"))
	q.Set("application_name", "masjidfinder")
	u.RawQuery = q.Encode()
	return u.String()
}

// =======================
// DATABASE CONNECTOR (seeder, lewat lib/pq)
// =======================
func InitSeederDB() (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", DSN())
	if err != nil {
		return nil, fmt.Errorf("open seeder db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping seeder db: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm (seeder): %w", err)
	}
	log.Println("✅ Database (Seeder) terkoneksi.")
	return db, nil
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

// NewGormLogger: dev -> semua query, selain itu hanya warn/error + slow query.
func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if IsDevelopment() {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

// Package config loads runtime configuration for the storefront bot.
//
// A .env file in the working directory is loaded once (if present) and merged
// under real environment variables. Every setting has a typed accessor with a
// default, so the bot boots with zero configuration for local development:
//
//	config.Load()
//	id := config.OperatorID()
//	path := config.DocumentPath()
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultDocumentPath  = "database.json"
	defaultHTTPAddr      = ":8080"
	defaultRedisAddr     = "localhost:6379"
	defaultPaymentNumber = "017XXXXXXXX"
	defaultSupportHandle = "@support"
	defaultLowStock      = 5
	defaultSweepSpec     = "@every 6h"
	defaultAppEnv        = "local"
	defaultBackupDisk    = "local"
	defaultBackupDir     = "backups"
)

var loadOnce sync.Once

// Load reads .env into the process environment. Missing file is not an error;
// real environment variables always win.
func Load() {
	loadOnce.Do(func() {
		_ = godotenv.Load()
	})
}

func get(key, fallback string) string {
	Load()
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(get(key, "")); err == nil {
		return v
	}
	return fallback
}

// OperatorID returns the single privileged chat identity. Zero means no
// operator is configured and every admin action is refused.
func OperatorID() int64 {
	v, err := strconv.ParseInt(get("OPERATOR_ID", ""), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// DocumentPath is the location of the persisted JSON document.
func DocumentPath() string { return get("DOCUMENT_PATH", defaultDocumentPath) }

// PaymentNumber is the out-of-band account customers send money to.
func PaymentNumber() string { return get("PAYMENT_NUMBER", defaultPaymentNumber) }

// SupportHandle is shown to users in support and delivery messages.
func SupportHandle() string { return get("SUPPORT_HANDLE", defaultSupportHandle) }

// LowStockThreshold is the available-count at or below which the sweep alerts.
func LowStockThreshold() int { return getInt("LOW_STOCK_THRESHOLD", defaultLowStock) }

// SweepSpec is the cron spec for the low-stock sweep.
func SweepSpec() string { return get("SWEEP_SPEC", defaultSweepSpec) }

// BackupSpec is the cron spec for document snapshots. Empty disables backups.
func BackupSpec() string { return get("BACKUP_SPEC", "") }

// BackupDisk selects the snapshot destination: "local" or "s3".
func BackupDisk() string { return get("BACKUP_DISK", defaultBackupDisk) }

// BackupDir is the path prefix snapshots are written under.
func BackupDir() string { return get("BACKUP_DIR", defaultBackupDir) }

// S3Bucket / S3Region / S3Endpoint configure the s3 backup disk.
func S3Bucket() string   { return get("S3_BUCKET", "") }
func S3Region() string   { return get("S3_REGION", "us-east-1") }
func S3Endpoint() string { return get("S3_ENDPOINT", "") }
func S3Key() string      { return get("S3_KEY", "") }
func S3Secret() string   { return get("S3_SECRET", "") }

// HTTPAddr is the listen address for the health/metrics server.
func HTTPAddr() string { return get("HTTP_ADDR", defaultHTTPAddr) }

// RedisAddr configures the optional dialog-session mirror. Empty string or an
// unreachable server degrades to in-memory sessions only.
func RedisAddr() string { return get("REDIS_ADDR", defaultRedisAddr) }

// RedisPassword for the session mirror.
func RedisPassword() string { return get("REDIS_PASSWORD", "") }

// MongoLogURI enables the async MongoDB log handler when non-empty.
func MongoLogURI() string { return get("MONGO_LOG_URI", "") }

// MongoLogDB is the database the log handler writes into.
func MongoLogDB() string { return get("MONGO_LOG_DB", "storebot") }

// AppEnv is "local", "production", etc. Controls log format and level.
func AppEnv() string { return get("APP_ENV", defaultAppEnv) }

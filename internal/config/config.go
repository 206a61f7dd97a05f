package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ServerPort   string
	Environment  string
	IsProduction bool

	JwtSecret  string
	Issuer     string
	SessionTTL time.Duration

	DbDriver   string
	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	SqlitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	// MinioPublicURL is the externally reachable base used to build attachment links.
	MinioPublicURL     string
	AttachmentPresign  bool
	AttachmentMaxBytes int64

	LogLevel  string
	LogFormat string

	AuditRetention time.Duration

	CorsOrigins []string

	LoginRatePerSec float64
	LoginRateBurst  int

	// Roles allowed to be assigned tickets and listed in reports.
	AgentRoles = []string{"agent", "manager"}
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	ServerPort = getEnv("SERVER_PORT", "8080")
	Environment = getEnv("ENV", "development")
	IsProduction = Environment == "production"

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	Issuer = getEnv("ISSUER", "csdesk")
	SessionTTL = getDuration("SESSION_TTL", 24*time.Hour)

	DbDriver = getEnv("DB_DRIVER", "postgres")
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "csdesk")
	SqlitePath = getEnv("SQLITE_PATH", "csdesk.db")

	RedisAddr = getEnv("REDIS_ADDR", "")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	RedisDB = getInt("REDIS_DB", 0)

	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MinioBucket = getEnv("MINIO_BUCKET", "attachments")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	MinioPublicURL = getEnv("MINIO_PUBLIC_URL", "")
	AttachmentPresign, _ = strconv.ParseBool(getEnv("ATTACHMENT_PRESIGN", "false"))
	AttachmentMaxBytes = int64(getInt("ATTACHMENT_MAX_BYTES", 10<<20))

	AuditRetention = time.Duration(getInt("AUDIT_RETENTION_DAYS", 90)) * 24 * time.Hour

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "text")

	CorsOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:,http://127.0.0.1:"))

	LoginRatePerSec, _ = strconv.ParseFloat(getEnv("LOGIN_RATE_PER_SEC", "1"), 64)
	LoginRateBurst = getInt("LOGIN_RATE_BURST", 5)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// UploadPolicy describes the size limit and MIME allowlist for one asset class.
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
	SubDir       string
}

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost string
	RedisPort string

	JWTSecret string
	GinMode   string
	Env       string

	UploadsRoot string

	TaskAttachmentUpload UploadPolicy
	SliderUpload         UploadPolicy
	LogoUpload           UploadPolicy
	LandingIconUpload    UploadPolicy
}

func Load() *Config {
	// A missing .env file is fine, plain env vars still apply
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "bikrans"),
		DBPassword: getEnv("DB_PASSWORD", "bikrans"),
		DBName:     getEnv("DB_NAME", "bikrans_platform"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		JWTSecret: getEnv("JWT_SECRET", "bikrans-secret-key-change-in-production"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		Env:       getEnv("APP_ENV", "development"),

		UploadsRoot: getEnv("UPLOADS_ROOT", "public/uploads"),

		TaskAttachmentUpload: UploadPolicy{
			MaxSize: getEnvBytes("TASK_UPLOAD_MAX_SIZE", 50*1024*1024),
			SubDir:  "tasks",
			AllowedTypes: []string{
				"image/jpeg", "image/png", "image/webp", "image/gif",
				"video/mp4", "video/webm", "video/quicktime",
				"audio/mpeg", "audio/mp3", "audio/wav", "audio/webm",
				"application/pdf", "application/msword",
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			},
		},
		SliderUpload: UploadPolicy{
			MaxSize:      getEnvBytes("SLIDER_UPLOAD_MAX_SIZE", 1*1024*1024),
			SubDir:       "sliders",
			AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		},
		LogoUpload: UploadPolicy{
			MaxSize:      getEnvBytes("LOGO_UPLOAD_MAX_SIZE", 500*1024),
			SubDir:       "logos",
			AllowedTypes: []string{"image/jpeg", "image/png", "image/svg+xml"},
		},
		LandingIconUpload: UploadPolicy{
			MaxSize:      getEnvBytes("LANDING_ICON_UPLOAD_MAX_SIZE", 500*1024),
			SubDir:       "landing",
			AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBytes(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

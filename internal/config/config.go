package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	AvatarLocal      = "local"
	AvatarCloudinary = "cloudinary"
	AvatarMinio      = "minio"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Environment    string // ENV: production, development, etc.
	Port           string
	Host           string // Public base URL, used to build verification links
	AllowedOrigins []string

	StoreDriver string
	MongoURI    string
	PostgresURI string
	RedisURI    string // Optional: enables the user lookup cache

	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AvatarBackend string
	PublicDir     string
	TmpDir        string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		Environment:    env,
		Port:           getEnv("PORT", "8080"),
		Host:           strings.TrimRight(getEnv("HOST", "http://localhost:8080"), "/"),
		AllowedOrigins: allowedOrigins,

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:    getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/contacts")),
		PostgresURI: getEnv("POSTGRES_URI", "postgres://localhost:5432/contacts?sslmode=disable"),
		RedisURI:    getEnv("REDIS_URI", ""),

		JWTSecret: getEnv("JWT_SECRET", getEnv("SECRET_KEY", "")),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 465),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", getEnv("SMTP_USERNAME", "")),

		AvatarBackend: strings.ToLower(getEnv("AVATAR_BACKEND", AvatarLocal)),
		PublicDir:     getEnv("PUBLIC_DIR", "public"),
		TmpDir:        getEnv("TMP_DIR", "tmp"),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "avatars"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioPublicURL: strings.TrimRight(getEnv("MINIO_PUBLIC_URL", ""), "/"),
	}
}

// Validate reports configuration that would make the server unusable.
// A missing JWT secret outside production falls back to a development key.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AvatarBackend {
	case AvatarLocal:
	case AvatarCloudinary:
		if c.CloudinaryName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return errors.New("cloudinary avatar backend requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	case AvatarMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return errors.New("minio avatar backend requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown AVATAR_BACKEND %q", c.AvatarBackend)
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = defaultJWTSecret
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// MailEnabled reports whether an SMTP transport is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

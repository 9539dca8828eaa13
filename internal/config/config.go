package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration read from the environment.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// DevStoreAddr is where cmd/devstore listens.
	DevStoreAddr string

	OTLPEndpoint   string
	TracingEnabled bool

	// DocumentConfigPath is an extra directory searched for document.yml.
	DocumentConfigPath string

	Store    StoreConfig
	Redis    RedisConfig
	Artifact ArtifactConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// StoreConfig points the engine at the remote persistence service.
type StoreConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

// ArtifactConfig selects where downloaded documents are archived.
type ArtifactConfig struct {
	Sink       string
	Dir        string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Access   string
	S3Secret   string
}

const (
	SinkNone       = "none"
	SinkFilesystem = "fs"
	SinkS3         = "s3"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:            getenv("APP_SERVICE", "quotedesk"),
		AppVersion:         getenv("APP_VERSION", "0.1.0"),
		Environment:        getenv("ENVIRONMENT", "development"),
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		DevStoreAddr:       getenv("DEVSTORE_HTTP_ADDR", ":5000"),
		OTLPEndpoint:       getenv("OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled:     getenvBool("TRACING_ENABLED", false),
		DocumentConfigPath: strings.TrimSpace(getenv("DOCUMENT_CONFIG_PATH", "")),
		Store: StoreConfig{
			BaseURL: strings.TrimRight(getenv("STORE_BASE_URL", "http://localhost:5000/api"), "/"),
			Timeout: getenvDuration("STORE_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Enabled:     getenvBool("REDIS_ENABLED", false),
			Addr:        strings.TrimSpace(getenv("REDIS_ADDR", "localhost:6379")),
			Password:    strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:          getenvInt("REDIS_DB", 0),
			SnapshotTTL: getenvDuration("REDIS_SNAPSHOT_TTL", 15*time.Minute),
		},
		Artifact: ArtifactConfig{
			Sink:       normalizeSink(getenv("ARTIFACT_SINK", SinkNone)),
			Dir:        getenv("ARTIFACT_DIR", "./downloads"),
			S3Bucket:   strings.TrimSpace(getenv("ARTIFACT_S3_BUCKET", "")),
			S3Region:   getenv("ARTIFACT_S3_REGION", "ap-south-1"),
			S3Endpoint: strings.TrimSpace(getenv("ARTIFACT_S3_ENDPOINT", "")),
			S3Access:   strings.TrimSpace(getenv("ARTIFACT_S3_ACCESS_KEY", "")),
			S3Secret:   strings.TrimSpace(getenv("ARTIFACT_S3_SECRET_KEY", "")),
		},
		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "quotedesk.db"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeSink(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SinkFilesystem, "filesystem", "file":
		return SinkFilesystem
	case SinkS3:
		return SinkS3
	default:
		return SinkNone
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

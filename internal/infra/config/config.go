package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env      string
	LogLevel string

	// Canonical sources.
	LegislationBaseURL string
	CaselawBaseURL     string

	// Fetcher.
	FetchTimeoutSeconds int
	FetchMaxRetries     int
	FetchCacheSize      int
	FetchCacheTTL       int // seconds

	// Embedding service.
	EmbeddingURL            string
	EmbeddingModel          string
	EmbeddingDimensions     int
	EmbeddingTimeoutSeconds int
	EmbeddingWorkers        int

	// Vector store.
	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string
	QdrantUseTLS bool

	// Stage-2 enrichment.
	AnthropicAPIKey string
	SummaryModel    string
	SummaryWorkers  int

	// OCR.
	OCRModel         string
	OCRWorkers       int
	OCRChunkPages    int
	OCRBucket        string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioUseSSL      bool
	SignedURLMinutes int

	// Tracking files.
	TrackingDir string

	// Observability.
	MetricsAddr string
	OTelLogs    bool
}

func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LegislationBaseURL: getEnv("LEGISLATION_BASE_URL", "https://www.legislation.gov.uk"),
		CaselawBaseURL:     getEnv("CASELAW_BASE_URL", "https://caselaw.nationalarchives.gov.uk"),

		FetchTimeoutSeconds: getEnvInt("FETCH_TIMEOUT_SECONDS", 30),
		FetchMaxRetries:     getEnvInt("FETCH_MAX_RETRIES", 5),
		FetchCacheSize:      getEnvInt("FETCH_CACHE_SIZE", 2048),
		FetchCacheTTL:       getEnvInt("FETCH_CACHE_TTL_SECONDS", 900),

		EmbeddingURL:            getEnv("EMBEDDING_URL", "http://localhost:11434"),
		EmbeddingModel:          getEnv("EMBEDDING_MODEL", "bge-m3"),
		EmbeddingDimensions:     getEnvInt("EMBEDDING_DIMENSIONS", 1024),
		EmbeddingTimeoutSeconds: getEnvInt("EMBEDDING_TIMEOUT_SECONDS", 60),
		EmbeddingWorkers:        getEnvInt("EMBEDDING_WORKERS", 50),

		QdrantHost:   getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:   getEnvInt("QDRANT_PORT", 6334),
		QdrantAPIKey: getSecret("QDRANT_API_KEY", "QDRANT_API_KEY_FILE", ""),
		QdrantUseTLS: getEnvBool("QDRANT_USE_TLS", false),

		AnthropicAPIKey: getSecret("ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY_FILE", ""),
		SummaryModel:    getEnv("SUMMARY_MODEL", "claude-sonnet-4-5"),
		SummaryWorkers:  getEnvInt("SUMMARY_WORKERS", 25),

		OCRModel:         getEnv("OCR_MODEL", "claude-sonnet-4-5"),
		OCRWorkers:       getEnvInt("OCR_WORKERS", 10),
		OCRChunkPages:    getEnvInt("OCR_CHUNK_PAGES", 40),
		OCRBucket:        getEnv("OCR_BUCKET", "lex-pdf-chunks"),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:   getSecret("MINIO_ACCESS_KEY", "MINIO_ACCESS_KEY_FILE", "minioadmin"),
		MinioSecretKey:   getSecret("MINIO_SECRET_KEY", "MINIO_SECRET_KEY_FILE", "minioadmin"),
		MinioUseSSL:      getEnvBool("MINIO_USE_SSL", false),
		SignedURLMinutes: getEnvInt("SIGNED_URL_MINUTES", 30),

		TrackingDir: getEnv("TRACKING_DIR", "./tracking"),

		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		OTelLogs:    getEnvBool("OTEL_LOGS_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

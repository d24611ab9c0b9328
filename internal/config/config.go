package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Host        string
		Port        int
		GRPCPort    int
		Environment string // development или production
	}
	Logging struct {
		Level string
	}
	Database struct {
		Enabled  bool
		Host     string
		Port     string
		Name     string
		User     string
		Password string
		SSLMode  string

		MemoryRunLimit int // размер журнала в памяти, когда база отключена
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	EnvironmentAPI struct {
		BaseURL string // пусто - используется локальный генератор
		Timeout time.Duration
	}
	Track struct {
		DefaultSegmentKm     float64
		SegmentLengthMeters  float64
		ProximityThresholdM  float64
		MaxParallelSegmenter int
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Если рядом есть .env файл, он читается первым; уже заданные переменные не перезаписываются.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// Конфигурация сервера
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.GRPCPort = getEnvInt("GRPC_PORT", 9090)
	cfg.Server.Environment = getEnv("ENVIRONMENT", "development")

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	// Журнал расчетов в PostgreSQL
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", false)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.Name = getEnv("DB_NAME", "rail_risk")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.Database.MemoryRunLimit = getEnvInt("RUN_LOG_MEMORY_LIMIT", 1000)

	// Кеш окружений
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.TTL = getEnvDuration("REDIS_TTL", time.Hour)

	// Внешний сервис окружения
	cfg.EnvironmentAPI.BaseURL = strings.TrimRight(getEnv("ENVIRONMENT_API_BASE_URL", ""), "/")
	cfg.EnvironmentAPI.Timeout = getEnvDuration("ENVIRONMENT_API_TIMEOUT", 10*time.Second)

	// Параметры расчета пути
	cfg.Track.DefaultSegmentKm = getEnvFloat("TRACK_DEFAULT_SEGMENT_KM", 10.0)
	cfg.Track.SegmentLengthMeters = getEnvFloat("TRACK_SEGMENT_LENGTH_M", 100.0)
	cfg.Track.ProximityThresholdM = getEnvFloat("PROXIMITY_THRESHOLD_M", 100.0)
	cfg.Track.MaxParallelSegmenter = getEnvInt("TRACK_SEGMENT_WORKERS", 4)

	return cfg
}

// IsProduction сообщает, запущен ли сервер в production режиме
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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

// getEnvDuration принимает "30s", "5m" и т.п. либо целое число секунд
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Zanziz/MK-project/utils"
	"github.com/joho/godotenv"
)

const (
	defaultServerPort     = 8080
	defaultTournamentName = "Mario Kart Cup"
	defaultBackupInterval = 10 * time.Minute
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort         int
	DatabaseURL        string // пустая строка: состояние хранится в памяти
	LogLevel           slog.Level
	CORSAllowedOrigins []string
	TournamentName     string
	BackupInterval     time.Duration // 0 отключает периодический бэкап

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// ArchiveEnabled reports whether the R2 archive settings are present.
func (c *Config) ArchiveEnabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	portStr := utils.GetEnvOrDefault("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	level, err := parseLogLevel(utils.GetEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	backup := defaultBackupInterval
	if raw := utils.GetEnvOrDefault("BACKUP_INTERVAL", ""); raw != "" {
		backup, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKUP_INTERVAL environment variable: %w", err)
		}
		if backup < 0 {
			return nil, fmt.Errorf("BACKUP_INTERVAL must not be negative, got %s", backup)
		}
	}

	origins := utils.SplitList(utils.GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cfg := &Config{
		ServerPort:         port,
		DatabaseURL:        utils.GetEnvOrDefault("DATABASE_URL", ""),
		LogLevel:           level,
		CORSAllowedOrigins: origins,
		TournamentName:     utils.GetEnvOrDefault("TOURNAMENT_NAME", defaultTournamentName),
		BackupInterval:     backup,
		R2AccountID:        utils.GetEnvOrDefault("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      utils.GetEnvOrDefault("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:  utils.GetEnvOrDefault("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:       utils.GetEnvOrDefault("R2_BUCKET_NAME", ""),
		R2PublicBaseURL:    utils.GetEnvOrDefault("R2_PUBLIC_BASE_URL", ""),
	}

	if err := cfg.validateArchive(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// R2 настраивается целиком или не настраивается вовсе.
func (c *Config) validateArchive() error {
	values := map[string]string{
		"R2_ACCOUNT_ID":        c.R2AccountID,
		"R2_ACCESS_KEY_ID":     c.R2AccessKeyID,
		"R2_SECRET_ACCESS_KEY": c.R2SecretAccessKey,
		"R2_BUCKET_NAME":       c.R2BucketName,
		"R2_PUBLIC_BASE_URL":   c.R2PublicBaseURL,
	}
	var missing []string
	for _, name := range []string{"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL"} {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 && len(missing) < len(values) {
		return fmt.Errorf("incomplete R2 archive configuration, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds everything the strata binary reads from the environment.
type Config struct {
	DBPath             string
	User               string
	Admins             []string
	RedisURL           string
	EventChannelPrefix string
	LogLevel           string
	LogUseCases        bool
	Limits             domain.Limits
}

// DefaultConfig returns the built-in defaults. Redis is disabled until a URL
// is configured.
func DefaultConfig() Config {
	return Config{
		DBPath:             defaultDBPath(),
		EventChannelPrefix: "strata:events:",
		LogLevel:           "info",
		Limits:             domain.DefaultLimits(),
	}
}

// Load reads the given .env files (or ./.env when none are named), then
// applies STRATA_* environment overrides on top of DefaultConfig. Variables
// already present in the process environment win over .env entries.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := DefaultConfig()
	cfg.DBPath = getEnv("STRATA_DB", cfg.DBPath)
	cfg.User = getEnv("STRATA_USER", cfg.User)
	cfg.Admins = getEnvAsList("STRATA_ADMINS")
	cfg.RedisURL = getEnv("STRATA_REDIS_URL", cfg.RedisURL)
	cfg.EventChannelPrefix = getEnv("STRATA_EVENT_CHANNEL_PREFIX", cfg.EventChannelPrefix)
	cfg.LogLevel = getEnv("STRATA_LOG_LEVEL", cfg.LogLevel)
	cfg.LogUseCases = getEnvAsBool("STRATA_LOG_USE_CASES", cfg.LogUseCases)

	applyTextLimitsEnv(&cfg.Limits.Project, "PROJECT")
	applyTextLimitsEnv(&cfg.Limits.Module, "MODULE")
	applyTextLimitsEnv(&cfg.Limits.UseCase, "USECASE")
	applyTextLimitsEnv(&cfg.Limits.Task, "TASK")
	cfg.Limits.TaskRelationsMax = getEnvAsInt("STRATA_TASK_RELATIONS_MAX", cfg.Limits.TaskRelationsMax)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("STRATA_DB is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	for name, l := range map[string]domain.TextLimits{
		"PROJECT": c.Limits.Project,
		"MODULE":  c.Limits.Module,
		"USECASE": c.Limits.UseCase,
		"TASK":    c.Limits.Task,
	} {
		if l.TitleMax <= 0 || l.DescriptionMax <= 0 {
			return fmt.Errorf("STRATA_%s limits must be positive", name)
		}
		if l.TitleMin < 0 || l.TitleMin > l.TitleMax {
			return fmt.Errorf("STRATA_%s_TITLE_MIN must be between 0 and STRATA_%s_TITLE_MAX", name, name)
		}
	}
	if c.Limits.UseCase.NotesMax <= 0 || c.Limits.Task.NotesMax <= 0 {
		return fmt.Errorf("notes limits must be positive")
	}
	if c.Limits.TaskRelationsMax <= 0 {
		return fmt.Errorf("STRATA_TASK_RELATIONS_MAX must be positive")
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("STRATA_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "strata.db"
	}
	return filepath.Join(home, ".strata", "strata.db")
}

func applyTextLimitsEnv(l *domain.TextLimits, entity string) {
	prefix := "STRATA_" + entity + "_"
	l.TitleMin = getEnvAsInt(prefix+"TITLE_MIN", l.TitleMin)
	l.TitleMax = getEnvAsInt(prefix+"TITLE_MAX", l.TitleMax)
	l.DescriptionMax = getEnvAsInt(prefix+"DESCRIPTION_MAX", l.DescriptionMax)
	if l.NotesMax > 0 {
		l.NotesMax = getEnvAsInt(prefix+"NOTES_MAX", l.NotesMax)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

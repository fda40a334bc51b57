package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	LogLevel      string
	OpsAddr       string

	Schedule   ScheduleConfig
	Generation GenerationConfig
}

// ScheduleConfig умолчания расписания для репетиторов без своих настроек
type ScheduleConfig struct {
	DefaultSessionDuration int
	DefaultSessionTime     string
	WorkingHoursStart      string
	WorkingHoursEnd        string
	ClosenessThreshold     int
}

// GenerationConfig фоновая генерация занятий по расписанию
type GenerationConfig struct {
	WeeksAhead int
	Interval   time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		DBDSN:         v.GetString("DB_DSN"),
		Environment:   v.GetString("ENV"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		OpsAddr:       v.GetString("OPS_ADDR"),
		Schedule: ScheduleConfig{
			DefaultSessionDuration: v.GetInt("DEFAULT_SESSION_DURATION"),
			DefaultSessionTime:     v.GetString("DEFAULT_SESSION_TIME"),
			WorkingHoursStart:      v.GetString("WORKING_HOURS_START"),
			WorkingHoursEnd:        v.GetString("WORKING_HOURS_END"),
			ClosenessThreshold:     v.GetInt("CLOSENESS_THRESHOLD_MINUTES"),
		},
		Generation: GenerationConfig{
			WeeksAhead: v.GetInt("GENERATION_WEEKS_AHEAD"),
			Interval:   parseDuration(v.GetString("GENERATION_INTERVAL"), 24*time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := model.DefaultSettings()

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OPS_ADDR", ":8081")
	v.SetDefault("DEFAULT_SESSION_DURATION", defaults.DefaultSessionDuration)
	v.SetDefault("DEFAULT_SESSION_TIME", defaults.DefaultSessionTime)
	v.SetDefault("WORKING_HOURS_START", defaults.WorkingHoursStart)
	v.SetDefault("WORKING_HOURS_END", defaults.WorkingHoursEnd)
	v.SetDefault("CLOSENESS_THRESHOLD_MINUTES", defaults.ClosenessThreshold)
	v.SetDefault("GENERATION_WEEKS_AHEAD", 4)
	v.SetDefault("GENERATION_INTERVAL", "24h")
}

func (c *Config) validate() error {
	// Проверяем обязательные поля
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	if c.Schedule.DefaultSessionDuration <= 0 {
		return fmt.Errorf("DEFAULT_SESSION_DURATION must be positive")
	}
	if c.Schedule.ClosenessThreshold < 0 {
		return fmt.Errorf("CLOSENESS_THRESHOLD_MINUTES must not be negative")
	}
	for key, value := range map[string]string{
		"DEFAULT_SESSION_TIME": c.Schedule.DefaultSessionTime,
		"WORKING_HOURS_START":  c.Schedule.WorkingHoursStart,
		"WORKING_HOURS_END":    c.Schedule.WorkingHoursEnd,
	} {
		if _, err := schedule.ParseClock(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if schedule.ClockMinutes(c.Schedule.WorkingHoursEnd) <= schedule.ClockMinutes(c.Schedule.WorkingHoursStart) {
		return fmt.Errorf("WORKING_HOURS_END must be after WORKING_HOURS_START")
	}

	return nil
}

// Settings умолчания расписания в виде настроек репетитора
func (c *Config) Settings() model.Settings {
	return model.Settings{
		DefaultSessionDuration: c.Schedule.DefaultSessionDuration,
		DefaultSessionTime:     c.Schedule.DefaultSessionTime,
		WorkingHoursStart:      c.Schedule.WorkingHoursStart,
		WorkingHoursEnd:        c.Schedule.WorkingHoursEnd,
		ClosenessThreshold:     c.Schedule.ClosenessThreshold,
	}
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Package config loads wa's settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/workattend/wa/pkg/derive"
	"github.com/workattend/wa/pkg/entry"
	"github.com/workattend/wa/pkg/model"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds every WA_* setting.
type Config struct {
	Store           string `validate:"oneof=file sqlite"`
	DataDir         string `validate:"required"`
	DB              string `validate:"required_if=Store sqlite"`
	ReportsDir      string `validate:"required"`
	DayStart        model.TimeOfDay
	WorkdaysPerWeek int `validate:"min=1,max=7"`
	ConfirmSave     bool
	LogLevel        string `validate:"oneof=trace debug info warn warning error fatal panic disabled off"`
	LogFormat       string `validate:"omitempty,oneof=console json"`
}

var validate = validator.New()

// Load reads files into the environment (".env" when none are given; a
// missing file is fine), then builds and validates the Config. Variables
// already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	start, err := entry.ParseTimeOfDay(getEnv("WA_DAY_START", "09:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid WA_DAY_START: %w", err)
	}
	workdays, err := strconv.Atoi(getEnv("WA_WORKDAYS_PER_WEEK", strconv.Itoa(derive.DefaultWorkdaysPerWeek)))
	if err != nil {
		return nil, fmt.Errorf("invalid WA_WORKDAYS_PER_WEEK: %w", err)
	}
	confirm, err := strconv.ParseBool(getEnv("WA_CONFIRM_SAVE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid WA_CONFIRM_SAVE: %w", err)
	}

	cfg := &Config{
		Store:           strings.ToLower(getEnv("WA_STORE", StoreFile)),
		DataDir:         getEnv("WA_DATA_DIR", "Work Attendance Files"),
		DB:              getEnv("WA_DB", "wa.db"),
		ReportsDir:      getEnv("WA_REPORTS_DIR", "Reports"),
		DayStart:        start,
		WorkdaysPerWeek: workdays,
		ConfirmSave:     confirm,
		LogLevel:        strings.ToLower(getEnv("WA_LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("WA_LOG_FORMAT", "")),
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

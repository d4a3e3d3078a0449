package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/breakoutsentinel/sentinel/internal/logger"
)

// DefaultUniverse is the sample universe used when none is configured.
var DefaultUniverse = []string{
	"RELIANCE.NS",
	"TCS.NS",
	"INFY.NS",
	"HDFCBANK.NS",
	"ICICIBANK.NS",
	"SBIN.NS",
	"LT.NS",
	"ITC.NS",
}

// Config holds all application configuration.
type Config struct {
	Universe []string `yaml:"universe" validate:"required,min=1,dive,required"`

	Lookback struct {
		DailyDays  int `yaml:"daily_days" default:"365" validate:"min=2"`
		WeeklyDays int `yaml:"weekly_days" default:"1095" validate:"min=14"`
	} `yaml:"lookback"`

	Sources struct {
		RequestTimeout time.Duration `yaml:"request_timeout" default:"15s" validate:"gt=0"`
		AlphaVantage   struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url" default:"https://www.alphavantage.co" validate:"url"`
		} `yaml:"alpha_vantage"`
		NSE struct {
			Disabled bool   `yaml:"disabled"`
			BaseURL  string `yaml:"base_url" default:"https://www.nseindia.com" validate:"url"`
		} `yaml:"nse"`
		Yahoo struct {
			BaseURL string `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
		} `yaml:"yahoo"`
	} `yaml:"sources"`

	Scanner struct {
		Workers int `yaml:"workers" default:"1" validate:"min=1,max=32"`
	} `yaml:"scanner"`

	Storage struct {
		SnapshotPath string `yaml:"snapshot_path" default:"data/signals.json" validate:"required"`
		HistoryPath  string `yaml:"history_path" default:"data/signals_history.csv" validate:"required"`
		SQLitePath   string `yaml:"sqlite_path"`
	} `yaml:"storage"`

	Schedule struct {
		Cron       string `yaml:"cron" default:"@every 5m" validate:"required"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Server struct {
		Addr string `yaml:"addr" default:":8080"`
	} `yaml:"server"`

	Log logger.Config `yaml:"log"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, applies environment variable overrides,
// then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Universe) == 0 {
		cfg.Universe = append([]string(nil), DefaultUniverse...)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SENTINEL_UNIVERSE"); v != "" {
		var tickers []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tickers = append(tickers, s)
			}
		}
		cfg.Universe = tickers
	}
	if v := os.Getenv("ALPHA_VANTAGE_KEY"); v != "" {
		cfg.Sources.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("SENTINEL_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SENTINEL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scanner.Workers = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

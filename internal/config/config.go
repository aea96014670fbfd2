// Load envs from .env
// Load YAML config
// Apply defaults and env overrides
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-shift-hunter/internal/filter"
)

const (
	DefaultPath               = "configs/config.yaml"
	DefaultTargetURL          = "https://hiring.amazon.ca/search/warehouse-jobs?cmpid=ATLTBX1796H10"
	DefaultJobTitle           = "Delivery Station Warehouse Associate"
	DefaultRefreshMinSeconds  = 5
	DefaultRefreshMaxSeconds  = 8
	DefaultMaxAttempts        = 100
	DefaultBlockWait          = time.Hour
	DefaultInteractionTimeout = 10 * time.Second
	DefaultPageLoadWait       = 5 * time.Second
	DefaultLogFile            = "logs/hunter.log"
	DefaultLogLevel           = "info"
	DefaultScreenshotDir      = "logs/screenshots"
)

// RefreshInterval is the inclusive window, in seconds, the loop waits before each reload.
type RefreshInterval struct {
	MinSeconds int `yaml:"min_seconds"`
	MaxSeconds int `yaml:"max_seconds"`
}

func (r RefreshInterval) Min() time.Duration {
	return time.Duration(r.MinSeconds) * time.Second
}

func (r RefreshInterval) Max() time.Duration {
	return time.Duration(r.MaxSeconds) * time.Second
}

type Config struct {
	TargetURL string `yaml:"target_url"`
	// JobTitle is informational; listings are not filtered by it.
	JobTitle        string          `yaml:"job_title"`
	RefreshInterval RefreshInterval `yaml:"refresh_interval"`
	// MaxAttempts is an advisory ceiling on polls. The loop does not enforce it.
	MaxAttempts int `yaml:"max_attempts"`
	// BlockWait and BlockIndicators are reserved for block handling, which is not wired.
	BlockWait       time.Duration `yaml:"block_wait"`
	BlockIndicators []string      `yaml:"block_indicators"`

	InteractionTimeout time.Duration `yaml:"interaction_timeout"`
	// PageLoadWait bounds the wait for the results markers after each load.
	PageLoadWait time.Duration   `yaml:"page_load_wait"`
	Match        filter.Criteria `yaml:"match"`

	//Browser
	Headless        bool   `yaml:"headless"`
	InstallBrowser  bool   `yaml:"install_browser"`
	CookiesPath     string `yaml:"cookies_path"`
	SkipLoginPrompt bool   `yaml:"skip_login_prompt"`

	//Output
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	//Optional operator notifications
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// Load reads .env, then the YAML file named by HUNTER_CONFIG (or DefaultPath).
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("HUNTER_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom builds a Config from the YAML file at path. A missing file means all defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if url := os.Getenv("HUNTER_TARGET_URL"); url != "" {
		c.TargetURL = url
	}
	if level := os.Getenv("HUNTER_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if headless := os.Getenv("HUNTER_HEADLESS"); headless != "" {
		v, err := strconv.ParseBool(headless)
		if err != nil {
			return fmt.Errorf("invalid HUNTER_HEADLESS %q: %w", headless, err)
		}
		c.Headless = v
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.TargetURL == "" {
		c.TargetURL = DefaultTargetURL
	}
	if c.JobTitle == "" {
		c.JobTitle = DefaultJobTitle
	}
	if c.RefreshInterval.MinSeconds == 0 && c.RefreshInterval.MaxSeconds == 0 {
		c.RefreshInterval = RefreshInterval{MinSeconds: DefaultRefreshMinSeconds, MaxSeconds: DefaultRefreshMaxSeconds}
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BlockWait == 0 {
		c.BlockWait = DefaultBlockWait
	}
	if len(c.BlockIndicators) == 0 {
		c.BlockIndicators = []string{"captcha", "blocked", "access denied", "too many requests", "security check"}
	}
	if c.InteractionTimeout == 0 {
		c.InteractionTimeout = DefaultInteractionTimeout
	}
	if c.PageLoadWait == 0 {
		c.PageLoadWait = DefaultPageLoadWait
	}

	defaults := filter.DefaultCriteria()
	if len(c.Match.EmploymentTypes) == 0 {
		c.Match.EmploymentTypes = defaults.EmploymentTypes
	}
	if c.Match.ZeroShiftMarker == "" {
		c.Match.ZeroShiftMarker = defaults.ZeroShiftMarker
	}

	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = DefaultScreenshotDir
	}
}

func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return errors.New("target_url is required")
	}
	if c.RefreshInterval.MinSeconds < 0 {
		return fmt.Errorf("refresh_interval.min_seconds must not be negative, got %d", c.RefreshInterval.MinSeconds)
	}
	if c.RefreshInterval.MaxSeconds < c.RefreshInterval.MinSeconds {
		return fmt.Errorf("refresh_interval.max_seconds (%d) must be >= min_seconds (%d)",
			c.RefreshInterval.MaxSeconds, c.RefreshInterval.MinSeconds)
	}
	if c.InteractionTimeout < 0 {
		return fmt.Errorf("interaction_timeout must not be negative, got %s", c.InteractionTimeout)
	}
	if c.PageLoadWait < 0 {
		return fmt.Errorf("page_load_wait must not be negative, got %s", c.PageLoadWait)
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		return errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// NotificationsEnabled reports whether Telegram credentials are configured.
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

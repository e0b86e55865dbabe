package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 构建信息，由 -ldflags "-X koralai-host/internal/app.Version=..." 注入。
var (
	Version   = "0.2.0"
	Commit    = "dev"
	BuildTime = ""
)

// 浏览器后端选择。
const (
	BackendAuto    = "auto"
	BackendWebView = "webview"
	BackendLorca   = "lorca"
	BackendSystem  = "system"
)

// Config 是宿主窗口的启动配置。
// 在 main 中构造一次，再显式传给各组件，不做进程级全局状态。
type Config struct {
	AppName         string `yaml:"app_name"`
	WindowTitle     string `yaml:"window_title"`
	Width           int    `yaml:"initial_width"`
	Height          int    `yaml:"initial_height"`
	SettingsFile    string `yaml:"settings_file"`
	EntryPoint      string `yaml:"entry_point"`
	DefaultHomepage string `yaml:"default_homepage"`
	JournalDB       string `yaml:"journal_db"`
	LogLevel        string `yaml:"log_level"`
	Backend         string `yaml:"backend"`
}

// DefaultConfig 返回内置默认值（工作目录相对路径）。
func DefaultConfig() Config {
	return Config{
		AppName:         "KoralaiHost",
		WindowTitle:     "Koralai | Host v0.2",
		Width:           1280,
		Height:          720,
		SettingsFile:    "koralai_settings.json",
		EntryPoint:      "index.html",
		DefaultHomepage: "https://www.google.com",
		JournalDB:       "data/koralai.db",
		LogLevel:        "info",
		Backend:         BackendAuto,
	}
}

// LoadConfig 以默认值为底，依次叠加 YAML 文件与环境变量。
//
// 规则：
// - path 为空或文件不存在：只用默认值（首次运行不要求配置文件）
// - 文件存在但解析失败：返回错误，避免带着半套配置启动
// - 工作目录下的 .env 会先被加载，但不覆盖已存在的环境变量
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.SettingsFile = getenvDefault("KORALAI_SETTINGS_FILE", c.SettingsFile)
	c.EntryPoint = getenvDefault("KORALAI_ENTRY_POINT", c.EntryPoint)
	c.DefaultHomepage = getenvDefault("KORALAI_HOMEPAGE", c.DefaultHomepage)
	c.JournalDB = getenvDefault("KORALAI_JOURNAL_DB", c.JournalDB)
	c.LogLevel = getenvDefault("KORALAI_LOG_LEVEL", c.LogLevel)
	c.Backend = getenvDefault("KORALAI_BACKEND", c.Backend)
	c.Width = getInt("KORALAI_WIDTH", c.Width)
	c.Height = getInt("KORALAI_HEIGHT", c.Height)
}

// Validate 检查配置的基本可用性。
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: window size must be positive: %dx%d", c.Width, c.Height)
	}
	if strings.TrimSpace(c.SettingsFile) == "" {
		return errors.New("config: settings_file is required")
	}
	if strings.TrimSpace(c.EntryPoint) == "" {
		return errors.New("config: entry_point is required")
	}
	if strings.TrimSpace(c.DefaultHomepage) == "" {
		return errors.New("config: default_homepage is required")
	}
	switch c.Backend {
	case BackendAuto, BackendWebView, BackendLorca, BackendSystem:
	default:
		return fmt.Errorf("config: unknown backend: %s", c.Backend)
	}
	return nil
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	BackendOpenRouter = "openrouter"
	BackendGemini     = "gemini"
)

// Config はサーバーと CLI が共有する設定値です。
// 優先順位は 既定値 < YAML ファイル < 環境変数 (.env を含む) < コマンドラインフラグ です。
type Config struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	Backend           string `yaml:"backend"`
	OpenRouterAPIKey  string `yaml:"openrouter_api_key"`
	OpenRouterBaseURL string `yaml:"openrouter_base_url"`
	GeminiAPIKey      string `yaml:"gemini_api_key"`
	ImageModel        string `yaml:"image_model"`

	OutputDir  string `yaml:"output_dir"`
	PromptsDir string `yaml:"prompts_dir"`
	WebDir     string `yaml:"web_dir"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
	JPEGQuality int           `yaml:"jpeg_quality"`
	BatchDelay  time.Duration `yaml:"batch_delay"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
}

// Default は設定ファイルも環境変数も無いときの値を返します。
func Default() *Config {
	return &Config{
		Host:              "127.0.0.1",
		Port:              5000,
		GinMode:           "release",
		Backend:           BackendOpenRouter,
		OpenRouterBaseURL: "https://openrouter.ai/api/v1",
		OutputDir:         "generated-images",
		PromptsDir:        "image-prompts",
		WebDir:            "web",
		HTTPTimeout:       30 * time.Second,
		BatchDelay:        2 * time.Second,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load はカレントディレクトリの .env を読み込み、設定を組み立てます。
// path が空でなければ YAML の設定ファイルを先に適用します。
func Load(path string) (*Config, error) {
	// .env が無いのは正常
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルを開けません: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルのパースに失敗しました: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Host = getEnvOrDefault("HOST", c.Host)
	c.Port = getEnvAsInt("PORT", c.Port)
	c.GinMode = getEnvOrDefault("GIN_MODE", c.GinMode)
	c.Backend = getEnvOrDefault("BACKEND", c.Backend)
	c.OpenRouterAPIKey = getEnvOrDefault("OPENROUTER_API_KEY", c.OpenRouterAPIKey)
	c.OpenRouterBaseURL = getEnvOrDefault("OPENROUTER_BASE_URL", c.OpenRouterBaseURL)
	c.GeminiAPIKey = getEnvOrDefault("GEMINI_API_KEY", c.GeminiAPIKey)
	c.ImageModel = getEnvOrDefault("IMAGE_MODEL", c.ImageModel)
	c.OutputDir = getEnvOrDefault("OUTPUT_DIR", c.OutputDir)
	c.PromptsDir = getEnvOrDefault("PROMPTS_DIR", c.PromptsDir)
	c.WebDir = getEnvOrDefault("WEB_DIR", c.WebDir)
	c.HTTPTimeout = getEnvAsDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.JPEGQuality = getEnvAsInt("IMAGE_JPEG_QUALITY", c.JPEGQuality)
	c.BatchDelay = getEnvAsDuration("BATCH_DELAY", c.BatchDelay)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)
}

// Validate は組み合わせとして成り立たない設定を検出します。
// API キーの有無はリクエストごとに上書きできるため、ここでは検査しません。
func (c *Config) Validate() error {
	if c.Backend != BackendOpenRouter && c.Backend != BackendGemini {
		return fmt.Errorf("BACKEND は %q か %q を指定してください: %q", BackendOpenRouter, BackendGemini, c.Backend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT が範囲外です: %d", c.Port)
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return fmt.Errorf("IMAGE_JPEG_QUALITY は0〜100で指定してください: %d", c.JPEGQuality)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT は正の値を指定してください: %s", c.HTTPTimeout)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	return nil
}

// Addr は待ち受けアドレス (host:port) を返します。
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// APIKey は選択中のバックエンドに対応するキーを返します。
func (c *Config) APIKey() string {
	if c.Backend == BackendGemini {
		return c.GeminiAPIKey
	}
	return c.OpenRouterAPIKey
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
		slog.Warn("環境変数を整数として解釈できないため既定値を使います", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
		slog.Warn("環境変数を時間として解釈できないため既定値を使います", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

package translator

import (
	"strings"
	"time"

	"github.com/yungbote/literacy-backend/internal/platform/envutil"
)

const (
	DialectDeepL          = "deepl"
	DialectLibreTranslate = "libretranslate"
	DialectOpenAI         = "openai"
)

type Config struct {
	Provider      string
	BaseURL       string
	APIKey        string
	Model         string
	Timeout       time.Duration
	MaxAttempts   int
	Backoff       time.Duration
	MaxRetryAfter time.Duration
}

func LoadConfig() Config {
	return Config{
		Provider:      strings.ToLower(envutil.String("TRANSLATION_PROVIDER", DialectDeepL)),
		BaseURL:       envutil.String("TRANSLATION_PROVIDER_URL", ""),
		APIKey:        envutil.String("TRANSLATION_PROVIDER_API_KEY", ""),
		Model:         envutil.String("TRANSLATION_PROVIDER_MODEL", ""),
		Timeout:       envutil.Seconds("TRANSLATION_PROVIDER_TIMEOUT_SECONDS", 30),
		MaxAttempts:   envutil.Int("TRANSLATION_PROVIDER_MAX_ATTEMPTS", 3),
		Backoff:       envutil.Millis("TRANSLATION_PROVIDER_BACKOFF_MS", 1000),
		MaxRetryAfter: envutil.Seconds("TRANSLATION_PROVIDER_MAX_RETRY_AFTER_SECONDS", 30),
	}
}

func (c Config) withDefaults() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DialectDeepL
	}
	if c.BaseURL == "" {
		switch c.Provider {
		case DialectLibreTranslate:
			c.BaseURL = "https://libretranslate.com"
		case DialectOpenAI:
			c.BaseURL = "https://api.openai.com"
		default:
			c.BaseURL = "https://api-free.deepl.com"
		}
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Provider == DialectOpenAI && c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.MaxRetryAfter <= 0 {
		c.MaxRetryAfter = 30 * time.Second
	}
	return c
}

// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Database struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type RabbitMQ struct {
	URL   string `yaml:"url"`
	Queue string `yaml:"queue"`
}

type Gmail struct {
	CredentialsPath string `yaml:"credentials_path"`
	TokenPath       string `yaml:"token_path"`
	OwnerEmail      string `yaml:"owner_email"`
}

type Enrichment struct {
	Cities            []string `yaml:"cities"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
}

type Config struct {
	Port           string     `yaml:"port"`
	Database       Database   `yaml:"database"`
	GeminiAPIKey   string     `yaml:"gemini_api_key"`
	GeminiModel    string     `yaml:"gemini_model"`
	WhatsAppNumber string     `yaml:"whatsapp_number"`
	Telegram       Telegram   `yaml:"telegram"`
	RabbitMQ       RabbitMQ   `yaml:"rabbitmq"`
	Gmail          Gmail      `yaml:"gmail"`
	CORSOrigins    []string   `yaml:"cors_origins"`
	JobTTLDays     int        `yaml:"job_ttl_days"`
	MatchLimit     int        `yaml:"match_limit"`
	Enrichment     Enrichment `yaml:"enrichment"`
}

// SaudiCities is the default city list for facility discovery.
var SaudiCities = []string{
	"الرياض", "جدة", "مكة المكرمة", "المدينة المنورة", "الدمام",
	"الخبر", "الظهران", "الأحساء", "الطائف", "تبوك",
	"بريدة", "خميس مشيط", "حائل", "نجران", "جازان",
	"ينبع", "أبها", "الجبيل", "القطيف", "الخرج",
}

// Load reads .env, then the YAML file at path (missing file is fine), then
// environment overrides, and fills defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
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
	setString(&c.Port, "PORT")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.WhatsAppNumber, "WHATSAPP_NUMBER")
	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.RabbitMQ.Queue, "RABBITMQ_QUEUE")
	setString(&c.Gmail.CredentialsPath, "GMAIL_CREDENTIALS_PATH")
	setString(&c.Gmail.TokenPath, "GMAIL_TOKEN_PATH")
	setString(&c.Gmail.OwnerEmail, "OWNER_EMAIL")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = strings.Split(origins, ",")
	}

	if ttl := os.Getenv("JOB_TTL_DAYS"); ttl != "" {
		days, err := strconv.Atoi(ttl)
		if err != nil {
			return fmt.Errorf("invalid JOB_TTL_DAYS: %w", err)
		}
		c.JobTTLDays = days
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.5-flash"
	}
	if c.WhatsAppNumber == "" {
		c.WhatsAppNumber = "201091858809"
	}
	if c.RabbitMQ.Queue == "" {
		c.RabbitMQ.Queue = "owner_notifications"
	}
	if c.Gmail.CredentialsPath == "" {
		c.Gmail.CredentialsPath = "credential.json"
	}
	if c.Gmail.TokenPath == "" {
		c.Gmail.TokenPath = "token.json"
	}
	if c.JobTTLDays == 0 {
		c.JobTTLDays = 30
	}
	if c.MatchLimit == 0 {
		c.MatchLimit = 5
	}
	if len(c.Enrichment.Cities) == 0 {
		c.Enrichment.Cities = SaudiCities
	}
	if c.Enrichment.RequestsPerMinute == 0 {
		c.Enrichment.RequestsPerMinute = 30
	}
}

// Validate rejects values that would misconfigure a running server. Missing
// integrations (Telegram, RabbitMQ, Gmail, Gemini) only disable features.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.JobTTLDays < 1 {
		return fmt.Errorf("job_ttl_days must be positive, got %d", c.JobTTLDays)
	}
	if c.MatchLimit < 1 {
		return fmt.Errorf("match_limit must be positive, got %d", c.MatchLimit)
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required when a bot token is set")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	Ingestion      Ingestion      `mapstructure:",squash"`
	Cache          Cache          `mapstructure:",squash"`
	RateLimit      RateLimit      `mapstructure:",squash"`
	Cors           Cors           `mapstructure:",squash"`
	DuplicateAudit DuplicateAudit `mapstructure:",squash"`
}

type App struct {
	LogLevel string         `mapstructure:"log_level"`
	Timezone string         `mapstructure:"app_timezone"`
	Location *time.Location `mapstructure:"-"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"database_dsn"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

type Auth struct {
	WebhookToken string `mapstructure:"webhook_token"`
	AdminToken   string `mapstructure:"admin_token"`
}

type Ingestion struct {
	MaxBatchSize       int   `mapstructure:"ingestion_max_batch_size"`
	MaxConcurrentItems int   `mapstructure:"ingestion_max_concurrent_items"`
	MaxFailureDetails  int   `mapstructure:"ingestion_max_failure_details"`
	MaxBodyBytes       int64 `mapstructure:"ingestion_max_body_bytes"`
}

type Cache struct {
	TTL  time.Duration `mapstructure:"cache_ttl"`
	Size int           `mapstructure:"cache_size"`
}

type RateLimit struct {
	WebhookPerMinute int `mapstructure:"rate_limit_webhook_per_minute"`
	ReadPerMinute    int `mapstructure:"rate_limit_read_per_minute"`
	WritePerMinute   int `mapstructure:"rate_limit_write_per_minute"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type DuplicateAudit struct {
	CronSchedule string `mapstructure:"duplicate_audit_cron"`
	Enabled      bool   `mapstructure:"duplicate_audit_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")

	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales_ranking?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)

	viper.SetDefault("WEBHOOK_TOKEN", "")
	viper.SetDefault("ADMIN_TOKEN", "")

	viper.SetDefault("INGESTION_MAX_BATCH_SIZE", 5000)
	viper.SetDefault("INGESTION_MAX_CONCURRENT_ITEMS", 8)
	viper.SetDefault("INGESTION_MAX_FAILURE_DETAILS", 10)
	viper.SetDefault("INGESTION_MAX_BODY_BYTES", 10<<20) // 10 MiB

	viper.SetDefault("CACHE_TTL", "1h")
	viper.SetDefault("CACHE_SIZE", 256)

	viper.SetDefault("RATE_LIMIT_WEBHOOK_PER_MINUTE", 100)
	viper.SetDefault("RATE_LIMIT_READ_PER_MINUTE", 100)
	viper.SetDefault("RATE_LIMIT_WRITE_PER_MINUTE", 20)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DUPLICATE_AUDIT_CRON", "0 * * * *") // De hora em hora
	viper.SetDefault("DUPLICATE_AUDIT_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.AutomaticEnv()
	// N8N_WEBHOOK_TOKEN é o nome usado pelas instalações antigas
	if err := viper.BindEnv("WEBHOOK_TOKEN", "WEBHOOK_TOKEN", "N8N_WEBHOOK_TOKEN"); err != nil {
		return nil, err
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) normalize() error {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("fuso horário inválido %q: %w", c.App.Timezone, err)
	}
	c.App.Location = loc

	if c.Database.DSN == "" {
		c.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			c.Database.Driver,
			c.Database.User,
			c.Database.Password,
			c.Database.URL,
		)
	}

	if c.Auth.AdminToken == "" {
		c.Auth.AdminToken = c.Auth.WebhookToken
	}
	if c.Auth.WebhookToken == "" {
		logrus.Warn("WEBHOOK_TOKEN não configurado, o webhook de vendas vai recusar todas as requisições")
	}

	origins := make([]string, 0, len(c.Cors.AllowedOrigins))
	for _, origin := range c.Cors.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Cors.AllowedOrigins = origins

	if c.Ingestion.MaxConcurrentItems <= 0 {
		c.Ingestion.MaxConcurrentItems = 1
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}

package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/perchfin/lending-engine/internal/ledger"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Bank      BankConfig      `mapstructure:"bank"`
	Auth      AuthConfig      `mapstructure:"auth"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Product   ProductConfig   `mapstructure:"product"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type BankConfig struct {
	BaseURL  string `mapstructure:"BANK_URL"`
	Username string `mapstructure:"BANK_USERNAME"`
	Password string `mapstructure:"BANK_PASSWORD"`
	Account  string `mapstructure:"BANK_ACCOUNT"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`
}

type SMTPConfig struct {
	Host        string `mapstructure:"SMTP_HOST"`
	Port        string `mapstructure:"SMTP_PORT"`
	Username    string `mapstructure:"SMTP_USERNAME"`
	Password    string `mapstructure:"SMTP_PASSWORD"`
	SenderEmail string `mapstructure:"SENDER_EMAIL"`
}

type SchedulerConfig struct {
	Timezone     string        `mapstructure:"SCHEDULER_TIMEZONE"`
	ReminderLead time.Duration `mapstructure:"REMINDER_LEAD"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type ProductConfig struct {
	MinLoanAmount         string `mapstructure:"MIN_LOAN_AMOUNT"`
	MaxLoanAmount         string `mapstructure:"MAX_LOAN_AMOUNT"`
	DecisionValidDays     int    `mapstructure:"DECISION_VALID_DAYS"`
	DefaultDurationDays   int    `mapstructure:"DEFAULT_DURATION_DAYS"`
	DefaultFrequencyDays  int    `mapstructure:"DEFAULT_FREQUENCY_DAYS"`
	RepresentativeAmount  string `mapstructure:"REPRESENTATIVE_AMOUNT"`
	RepresentativeRate    string `mapstructure:"REPRESENTATIVE_RATE"`
	RepresentativeFeeFlat string `mapstructure:"REPRESENTATIVE_FEE_FLAT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	viper.SetDefault("REMINDER_LEAD", "72h")
	viper.SetDefault("MIN_LOAN_AMOUNT", "100")
	viper.SetDefault("MAX_LOAN_AMOUNT", "50000")
	viper.SetDefault("DECISION_VALID_DAYS", 7)
	viper.SetDefault("DEFAULT_DURATION_DAYS", 360)
	viper.SetDefault("DEFAULT_FREQUENCY_DAYS", 30)
	viper.SetDefault("REPRESENTATIVE_AMOUNT", "3000")
	viper.SetDefault("REPRESENTATIVE_RATE", "0.05")
	viper.SetDefault("REPRESENTATIVE_FEE_FLAT", "100")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Product.DecisionValidDays <= 0 {
		return fmt.Errorf("DECISION_VALID_DAYS must be greater than 0")
	}

	if c.Product.DefaultDurationDays <= 0 || c.Product.DefaultFrequencyDays <= 0 {
		return fmt.Errorf("default loan duration and frequency must be greater than 0")
	}

	if _, err := decimal.NewFromString(c.Product.MinLoanAmount); err != nil {
		return fmt.Errorf("MIN_LOAN_AMOUNT must be a valid decimal: %w", err)
	}

	if _, err := decimal.NewFromString(c.Product.MaxLoanAmount); err != nil {
		return fmt.Errorf("MAX_LOAN_AMOUNT must be a valid decimal: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// Limits returns the ledger limits derived from the product section.
func (c *Config) Limits() ledger.Limits {
	minAmount, _ := decimal.NewFromString(c.Product.MinLoanAmount)
	maxAmount, _ := decimal.NewFromString(c.Product.MaxLoanAmount)
	return ledger.Limits{
		MinLoanAmount:        minAmount,
		MaxLoanAmount:        maxAmount,
		DecisionValidity:     time.Duration(c.Product.DecisionValidDays) * 24 * time.Hour,
		DefaultDurationDays:  c.Product.DefaultDurationDays,
		DefaultFrequencyDays: c.Product.DefaultFrequencyDays,
	}
}

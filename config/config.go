package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/radu-bors/Clique-backend/pkg/retry"
)

// Config holds all configuration for the clique backend
type Config struct {
	Database     DatabaseConfig
	AuthDatabase DatabaseConfig
	Kafka        KafkaConfig
	Logging      LoggingConfig
	Service      ServiceConfig
	Auth         AuthConfig
	Matching     MatchingConfig
	Chat         ChatConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Migrate runs schema migrations on connect. Only the app store owns a schema.
	Migrate        bool
	MigrationsPath string
	WaitAttempts   int
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	TopicPrefix string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name     string
	Port     string
	GRPCPort string
}

// AuthConfig holds verification settings for identities issued by the auth service
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// MatchingConfig holds matching engine policy
type MatchingConfig struct {
	MaxRetries        int
	RetryBackoff      time.Duration
	CloseEventOnMatch bool
}

// RetryPolicy is the conflict retry policy shared by the matching engine and the event registry
func (c *MatchingConfig) RetryPolicy() retry.Policy {
	return retry.Policy{Retries: c.MaxRetries, Backoff: c.RetryBackoff}
}

// ChatConfig holds chat policy
type ChatConfig struct {
	RetainHistoryOnBlock bool
	PageSize             int
	SendRate             float64
	SendBurst            int
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read loads configuration from environment variables without validation.
// Tools that need only part of it validate that part themselves.
func Read() *Config {
	// Load .env file if exists
	_ = godotenv.Load()

	waitAttempts := getEnvInt("STARTUP_WAIT_ATTEMPTS", 10)

	cfg := &Config{
		Database: DatabaseConfig{
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			User:           getEnv("DATABASE_USER", "clique_user"),
			Password:       getEnv("DATABASE_PASSWORD", "clique_pass"),
			DBName:         getEnv("DATABASE_NAME", "app_db"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			Migrate:        true,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
			WaitAttempts:   waitAttempts,
		},
		AuthDatabase: DatabaseConfig{
			Host:         getEnv("AUTH_DATABASE_HOST", "localhost"),
			Port:         getEnv("AUTH_DATABASE_PORT", "5433"),
			User:         getEnv("AUTH_DATABASE_USER", "auth_user"),
			Password:     getEnv("AUTH_DATABASE_PASSWORD", "auth_pass"),
			DBName:       getEnv("AUTH_DATABASE_NAME", "auth_db"),
			SSLMode:      getEnv("AUTH_DATABASE_SSLMODE", "disable"),
			WaitAttempts: waitAttempts,
		},
		Kafka: KafkaConfig{
			Enabled:     getEnvBool("KAFKA_ENABLED", false),
			Brokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9093"), ","),
			TopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "clique"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name:     getEnv("SERVICE_NAME", "clique-backend"),
			Port:     getEnv("SERVICE_PORT", "8000"),
			GRPCPort: getEnv("GRPC_PORT", "9000"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			Issuer:    getEnv("AUTH_JWT_ISSUER", ""),
		},
		Matching: MatchingConfig{
			MaxRetries:        getEnvInt("MATCHING_MAX_RETRIES", 3),
			RetryBackoff:      getEnvDuration("MATCHING_RETRY_BACKOFF", 20*time.Millisecond),
			CloseEventOnMatch: getEnvBool("MATCHING_CLOSE_EVENT_ON_MATCH", false),
		},
		Chat: ChatConfig{
			RetainHistoryOnBlock: getEnvBool("CHAT_RETAIN_HISTORY_ON_BLOCK", true),
			PageSize:             getEnvInt("CHAT_PAGE_SIZE", 100),
			SendRate:             getEnvFloat("CHAT_SEND_RATE", 5),
			SendBurst:            getEnvInt("CHAT_SEND_BURST", 10),
		},
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}

	if c.AuthDatabase.Host == "" || c.AuthDatabase.DBName == "" {
		return fmt.Errorf("AUTH_DATABASE_HOST and AUTH_DATABASE_NAME are required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	if c.Matching.MaxRetries < 0 {
		return fmt.Errorf("MATCHING_MAX_RETRIES must not be negative")
	}

	if c.Chat.PageSize <= 0 {
		return fmt.Errorf("CHAT_PAGE_SIZE must be positive")
	}

	if c.Chat.SendRate <= 0 || c.Chat.SendBurst <= 0 {
		return fmt.Errorf("CHAT_SEND_RATE and CHAT_SEND_BURST must be positive")
	}

	return nil
}

// ValidateDatabase validates the application store section
func (c *Config) ValidateDatabase() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Sections splits the loaded configuration into the pieces fx components depend on.
type Sections struct {
	fx.Out

	Database     *DatabaseConfig
	AuthDatabase *DatabaseConfig `name:"auth"`
	Kafka        *KafkaConfig
	Logging      *LoggingConfig
	Service      *ServiceConfig
	Auth         *AuthConfig
	Matching     *MatchingConfig
	Chat         *ChatConfig
}

// Out loads the configuration and provides each section to fx.
func Out() (Sections, error) {
	cfg, err := Load()
	if err != nil {
		return Sections{}, err
	}

	return Sections{
		Database:     &cfg.Database,
		AuthDatabase: &cfg.AuthDatabase,
		Kafka:        &cfg.Kafka,
		Logging:      &cfg.Logging,
		Service:      &cfg.Service,
		Auth:         &cfg.Auth,
		Matching:     &cfg.Matching,
		Chat:         &cfg.Chat,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"tasklist-backend/pkg/common"
)

// Config holds all application configuration. It is built once at process
// start and passed by reference to every component that needs table names,
// pool ids, and the like.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	TaskItemTable string
	UserTable     string
	EventBusName  string

	// Cognito configuration
	CognitoUserPoolID     string
	CognitoUserPoolClient string

	// Identity hook behavior
	AutoVerifyUsers bool

	// RunningInLambda is true when the process runs behind API Gateway. Only
	// then are pre-authorized identity headers from the gateway trusted.
	RunningInLambda bool

	// Listing page size
	PageSize int

	// Observability
	LogLevel      string
	EnableMetrics bool
	EnableTracing bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		TaskItemTable: getEnv("TASK_ITEM_TABLE", "task-items"),
		UserTable:     getEnv("USER_TABLE", "users"),
		EventBusName:  getEnv("EVENT_BUS_NAME", ""),

		CognitoUserPoolID:     getEnv("COGNITO_USER_POOL_ID", ""),
		CognitoUserPoolClient: getEnv("COGNITO_USER_POOL_CLIENT_ID", ""),

		AutoVerifyUsers: getEnvBool("AUTO_VERIFY_USERS", false),

		RunningInLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		PageSize: getEnvInt("PAGE_SIZE", common.DefaultPageSize),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.TaskItemTable == "" {
		return fmt.Errorf("TASK_ITEM_TABLE is required")
	}
	if c.UserTable == "" {
		return fmt.Errorf("USER_TABLE is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	if c.IsProduction() {
		if c.CognitoUserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required in production")
		}
		if c.CognitoUserPoolClient == "" {
			return fmt.Errorf("COGNITO_USER_POOL_CLIENT_ID is required in production")
		}
	}
	return nil
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

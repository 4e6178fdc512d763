package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the variable that points at a YAML config file
const ConfigFileEnv = "AGENTXRP_CONFIG"

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"serverAddress"   envconfig:"SERVER_ADDRESS"`
	Environment     string        `yaml:"environment"     envconfig:"ENVIRONMENT"`
	ReadTimeout     time.Duration `yaml:"readTimeout"     envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"    envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"    envconfig:"MAX_BODY_BYTES"`

	// Database configuration
	DatabaseDriver          string        `yaml:"databaseDriver"          envconfig:"DATABASE_DRIVER"`
	DatabaseDSN             string        `yaml:"databaseDSN"             envconfig:"DATABASE_DSN"`
	DatabaseMaxOpenConns    int           `yaml:"databaseMaxOpenConns"    envconfig:"DATABASE_MAX_OPEN_CONNS"`
	DatabaseMaxIdleConns    int           `yaml:"databaseMaxIdleConns"    envconfig:"DATABASE_MAX_IDLE_CONNS"`
	DatabaseConnMaxLifetime time.Duration `yaml:"databaseConnMaxLifetime" envconfig:"DATABASE_CONN_MAX_LIFETIME"`

	// AWS configuration
	AWSRegion    string `yaml:"awsRegion"    envconfig:"AWS_REGION"`
	EventBusName string `yaml:"eventBusName" envconfig:"EVENT_BUS_NAME"`

	// Lambda configuration
	LambdaFunctionName string `yaml:"-" envconfig:"AWS_LAMBDA_FUNCTION_NAME"`

	// Logging
	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`

	// Observability
	EnableMetrics     bool    `yaml:"enableMetrics"     envconfig:"ENABLE_METRICS"`
	TracingExporter   string  `yaml:"tracingExporter"   envconfig:"TRACING_EXPORTER"`
	OTLPEndpoint      string  `yaml:"otlpEndpoint"      envconfig:"OTLP_ENDPOINT"`
	OTLPInsecure      bool    `yaml:"otlpInsecure"      envconfig:"OTLP_INSECURE"`
	TracingSampleRate float64 `yaml:"tracingSampleRate" envconfig:"TRACING_SAMPLE_RATE"`

	// Rate limiting of authenticated routes, per client IP
	RateLimitPerMinute int `yaml:"rateLimitPerMinute" envconfig:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int `yaml:"rateLimitBurst"     envconfig:"RATE_LIMIT_BURST"`

	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins" envconfig:"CORS_ALLOWED_ORIGINS"`

	// ExposeErrorDetails puts internal error text and stack traces in 5xx
	// responses. Local debugging only; independent of Environment.
	ExposeErrorDetails bool `yaml:"exposeErrorDetails" envconfig:"EXPOSE_ERROR_DETAILS"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerAddress:        ":8080",
		Environment:          "development",
		ReadTimeout:          15 * time.Second,
		WriteTimeout:         15 * time.Second,
		ShutdownTimeout:      30 * time.Second,
		MaxBodyBytes:         1 << 20,
		DatabaseDriver:       "sqlite",
		DatabaseDSN:          "agentxrp.db",
		DatabaseMaxOpenConns: 10,
		DatabaseMaxIdleConns: 5,
		AWSRegion:            "us-west-2",
		LogLevel:             "info",
		EnableMetrics:        true,
		TracingExporter:      "none",
		TracingSampleRate:    1,
		RateLimitPerMinute:   120,
		RateLimitBurst:       20,
		CORSAllowedOrigins:   []string{"*"},
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file at
// path (or $AGENTXRP_CONFIG), then the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres", "mysql":
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for %s", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}

	switch c.TracingExporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown tracing exporter %q", c.TracingExporter)
	}

	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0 and 1")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.IsProduction() && c.DatabaseDriver == "sqlite" && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required in production")
	}

	return nil
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsLambda reports whether the process runs inside AWS Lambda
func (c *Config) IsLambda() bool {
	return c.LambdaFunctionName != ""
}

// EventBusEnabled reports whether events go to EventBridge
func (c *Config) EventBusEnabled() bool {
	return c.EventBusName != ""
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve on hosts without a zoneinfo database

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Schedule  ScheduleConfig  `yaml:"schedule" envconfig:"SCHEDULE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port             int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout      time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout     time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout      time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes   int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	OperationTimeout time.Duration `yaml:"operation_timeout" envconfig:"OPERATION_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against BaseDir, which defaults to the executable's directory.
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InboxDir  string `yaml:"inbox_dir" envconfig:"INBOX_DIR"`
	OutboxDir string `yaml:"outbox_dir" envconfig:"OUTBOX_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig controls the record transformation
type PipelineConfig struct {
	Mode string `yaml:"mode" envconfig:"MODE"`
	// Timezone is used for dates without a zone and for the week filter.
	Timezone  string `yaml:"timezone" envconfig:"TIMEZONE"`
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	// LocationCodes extends or overrides the built-in subsystem code table.
	LocationCodes map[string]string `yaml:"location_codes" envconfig:"LOCATION_CODES"`
}

// OutputConfig controls the generated files
type OutputConfig struct {
	Format     string `yaml:"format" envconfig:"FORMAT"`
	FilePrefix string `yaml:"file_prefix" envconfig:"FILE_PREFIX"`
	SheetName  string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	TableName  string `yaml:"table_name" envconfig:"TABLE_NAME"`
	TableStyle string `yaml:"table_style" envconfig:"TABLE_STYLE"`
}

// UploadConfig limits uploaded spreadsheets
type UploadConfig struct {
	MaxBytes    int64 `yaml:"max_bytes" envconfig:"MAX_BYTES"`
	PreviewRows int   `yaml:"preview_rows" envconfig:"PREVIEW_ROWS"`
}

// ScheduleConfig controls the unattended weekly run
type ScheduleConfig struct {
	Enabled    bool          `yaml:"enabled" envconfig:"ENABLED"`
	Spec       string        `yaml:"spec" envconfig:"SPEC"`
	RunTimeout time.Duration `yaml:"run_timeout" envconfig:"RUN_TIMEOUT"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
}

// Load builds the configuration from defaults, then the config file if one
// is found, then environment variables (highest priority).
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg; keys absent from the file keep
// their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Location returns the configured pipeline time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Pipeline.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Pipeline.Timezone)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	c.Pipeline.Mode = strings.ToLower(strings.TrimSpace(c.Pipeline.Mode))
	if c.Pipeline.Mode != "basic" && c.Pipeline.Mode != "extended" {
		return fmt.Errorf("invalid pipeline mode: %q", c.Pipeline.Mode)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid pipeline timezone %q: %w", c.Pipeline.Timezone, err)
	}

	c.Output.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Output.Format), "."))
	if c.Output.Format != "xlsx" && c.Output.Format != "csv" {
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	if c.Upload.PreviewRows <= 0 || c.Upload.PreviewRows > MaxPreviewRows {
		c.Upload.PreviewRows = PreviewRows
	}

	if c.Schedule.Enabled && strings.TrimSpace(c.Schedule.Spec) == "" {
		return fmt.Errorf("schedule spec is required when the schedule is enabled")
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      60 * time.Second,
			MaxHeaderBytes:   1 << 20, // 1MB
			ShutdownTimeout:  30 * time.Second,
			OperationTimeout: 2 * time.Minute,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   20,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			InboxDir:  "data/inbox",
			OutboxDir: "data/outbox",
			LogsDir:   "logs",
		},
		Pipeline: PipelineConfig{
			Mode:     "basic",
			Timezone: "UTC",
		},
		Output: OutputConfig{
			Format:     "xlsx",
			FilePrefix: DefaultFilePrefix,
			SheetName:  DefaultSheetName,
			TableName:  DefaultTableName,
			TableStyle: DefaultTableStyle,
		},
		Upload: UploadConfig{
			MaxBytes:    DefaultMaxUploadBytes,
			PreviewRows: PreviewRows,
		},
		Schedule: ScheduleConfig{
			Enabled:    false,
			Spec:       DefaultSchedule,
			RunTimeout: DefaultRunTimeout,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "ymreport",
			Environment:    "development",
			MetricsEnabled: true,
			TracingEnabled: false,
		},
	}
}

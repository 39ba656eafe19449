package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Storage       StorageConfig
	Browser       BrowserConfig
	Coworking     CoworkingConfig
	Banks         BanksConfig
	Converter     ConverterConfig
	Screenshots   ScreenshotsConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	AllowLocalhost bool
}

type AuthConfig struct {
	ServerToken string
}

type StorageConfig struct {
	DataDir string
}

type BrowserConfig struct {
	ExecPath       string
	Headless       bool
	NoSandbox      bool
	WindowWidth    int
	WindowHeight   int
	PageLoadWaitMS int
}

type CoworkingConfig struct {
	BaseURL   string
	LoginPath string
}

// LoginURL is the canonical login page address; landing back on it after a
// submitted login form means the credentials were rejected.
func (c CoworkingConfig) LoginURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.LoginPath
}

type BanksConfig struct {
	BCNBaseURL   string
	CaixaBaseURL string
}

type ConverterConfig struct {
	BaseURL    string
	TTLMinutes int
}

type ScreenshotsConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	OTLPEndpoint      string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://cv-helper.vercel.app,https://cv-helper-app.vercel.app,https://cv-connections-viewer.vercel.app")
	v.SetDefault("ALLOW_LOCALHOST", false)
	v.SetDefault("DATA_DIR", "./jdatabase")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("BROWSER_EXEC_PATH", "")
	v.SetDefault("BROWSER_HEADLESS", true)
	v.SetDefault("BROWSER_NO_SANDBOX", true)
	v.SetDefault("BROWSER_WINDOW_WIDTH", 1920)
	v.SetDefault("BROWSER_WINDOW_HEIGHT", 1080)
	v.SetDefault("BROWSER_PAGE_LOAD_WAIT_MS", 2000)
	v.SetDefault("COWORKING_BASE_URL", "https://coworking.prime.cv")
	v.SetDefault("COWORKING_LOGIN_PATH", "/web/login")
	v.SetDefault("BANK_BCN_BASE_URL", "https://www.bcn.cv")
	v.SetDefault("BANK_CAIXA_BASE_URL", "https://www.caixa.cv")
	v.SetDefault("CONVERTER_BASE_URL", "https://www.xe.com/currencyconverter/convert/")
	v.SetDefault("CONVERSION_CACHE_TTL_MINUTES", 10)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "cv-helper-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "cv-helper")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "cv-helper-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: allowedOrigins,
			AllowLocalhost: v.GetBool("ALLOW_LOCALHOST"),
		},
		Auth: AuthConfig{
			ServerToken: v.GetString("SERVER_TOKEN"),
		},
		Storage: StorageConfig{
			DataDir: v.GetString("DATA_DIR"),
		},
		Browser: BrowserConfig{
			ExecPath:       v.GetString("BROWSER_EXEC_PATH"),
			Headless:       v.GetBool("BROWSER_HEADLESS"),
			NoSandbox:      v.GetBool("BROWSER_NO_SANDBOX"),
			WindowWidth:    v.GetInt("BROWSER_WINDOW_WIDTH"),
			WindowHeight:   v.GetInt("BROWSER_WINDOW_HEIGHT"),
			PageLoadWaitMS: v.GetInt("BROWSER_PAGE_LOAD_WAIT_MS"),
		},
		Coworking: CoworkingConfig{
			BaseURL:   v.GetString("COWORKING_BASE_URL"),
			LoginPath: v.GetString("COWORKING_LOGIN_PATH"),
		},
		Banks: BanksConfig{
			BCNBaseURL:   v.GetString("BANK_BCN_BASE_URL"),
			CaixaBaseURL: v.GetString("BANK_CAIXA_BASE_URL"),
		},
		Converter: ConverterConfig{
			BaseURL:    v.GetString("CONVERTER_BASE_URL"),
			TTLMinutes: v.GetInt("CONVERSION_CACHE_TTL_MINUTES"),
		},
		Screenshots: ScreenshotsConfig{
			AccessKeyID:     v.GetString("SCREENSHOT_STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("SCREENSHOT_STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("SCREENSHOT_STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("SCREENSHOT_STORAGE_ENDPOINT"),
			Region:          v.GetString("SCREENSHOT_STORAGE_REGION"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint:      v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Auth.ServerToken == "" {
		return fmt.Errorf("SERVER_TOKEN is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	if c.Coworking.BaseURL == "" {
		return fmt.Errorf("COWORKING_BASE_URL is required")
	}
	if c.Converter.BaseURL == "" {
		return fmt.Errorf("CONVERTER_BASE_URL is required")
	}
	if c.Converter.TTLMinutes <= 0 {
		return fmt.Errorf("CONVERSION_CACHE_TTL_MINUTES must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

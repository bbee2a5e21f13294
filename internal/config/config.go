package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	AI        AIConfig        `mapstructure:"ai"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Schema          string        `mapstructure:"schema"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.Schema,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TLS       bool   `mapstructure:"tls"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds API-key authentication settings. AdminKeys grants access
// to the /admin subtree in addition to the regular endpoints.
type AuthConfig struct {
	APIKeys   []string `mapstructure:"api_keys"`
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// AIConfig configures the explanation provider chain. Providers are tried
// in the order listed in Priority; a missing API key disables a provider.
type AIConfig struct {
	Enabled  bool             `mapstructure:"enabled"`
	Priority []string         `mapstructure:"priority"`
	Timeout  time.Duration    `mapstructure:"timeout"`
	Groq     AIProviderConfig `mapstructure:"groq"`
	OpenAI   AIProviderConfig `mapstructure:"openai"`
}

type AIProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/trustguard")
	}

	// Environment variables
	v.SetEnvPrefix("TRUSTGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.tls", "TRUSTGUARD_REDIS_TLS")
	v.BindEnv("redis.host", "TRUSTGUARD_REDIS_HOST")
	v.BindEnv("redis.port", "TRUSTGUARD_REDIS_PORT")
	v.BindEnv("redis.password", "TRUSTGUARD_REDIS_PASSWORD")
	v.BindEnv("database.host", "TRUSTGUARD_DATABASE_HOST")
	v.BindEnv("database.port", "TRUSTGUARD_DATABASE_PORT")
	v.BindEnv("database.user", "TRUSTGUARD_DATABASE_USER")
	v.BindEnv("database.password", "TRUSTGUARD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "TRUSTGUARD_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "TRUSTGUARD_DATABASE_SSLMODE")
	v.BindEnv("ai.groq.api_key", "TRUSTGUARD_AI_GROQ_API_KEY")
	v.BindEnv("ai.openai.api_key", "TRUSTGUARD_AI_OPENAI_API_KEY")
	v.BindEnv("app.environment", "TRUSTGUARD_APP_ENVIRONMENT")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 15 * time.Second
	}
	if len(c.AI.Priority) == 0 {
		c.AI.Priority = []string{"groq", "openai"}
	}
	if c.AI.Groq.BaseURL == "" {
		c.AI.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.AI.Groq.Model == "" {
		c.AI.Groq.Model = "llama-3.3-70b-versatile"
	}
	if c.AI.OpenAI.BaseURL == "" {
		c.AI.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.AI.OpenAI.Model == "" {
		c.AI.OpenAI.Model = "gpt-4o-mini"
	}
}

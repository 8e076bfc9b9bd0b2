package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	CacheEnabled     bool          `mapstructure:"CACHE_ENABLED"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int           `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB   int           `mapstructure:"REDIS_SESSION_DB"`
	LocationCacheTTL time.Duration `mapstructure:"LOCATION_CACHE_TTL"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`

	// Central booking API.
	UpstreamBaseURL        string        `mapstructure:"UPSTREAM_BASE_URL"`
	UpstreamAuthToken      string        `mapstructure:"UPSTREAM_AUTH_TOKEN"`
	UpstreamOrganizationID int           `mapstructure:"UPSTREAM_ORGANIZATION_ID"`
	UpstreamServiceTypeID  int           `mapstructure:"UPSTREAM_SERVICE_TYPE_ID"`
	UpstreamTimeout        time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	// Geocoding.
	MapQuestBaseURL string `mapstructure:"MAPQUEST_BASE_URL"`
	MapQuestAPIKey  string `mapstructure:"MAPQUEST_API_KEY"`
	IPAPIBaseURL    string `mapstructure:"IPAPI_BASE_URL"`

	// Search page.
	ClearOnSearch       bool `mapstructure:"CLEAR_ON_SEARCH"`
	DefaultMaxLocations int  `mapstructure:"DEFAULT_MAX_LOCATIONS"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_SESSION_DB", 1)
	v.SetDefault("LOCATION_CACHE_TTL", 10*time.Minute)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("UPSTREAM_BASE_URL", "https://central.qnomy.com/CentralAPI")
	v.SetDefault("UPSTREAM_AUTH_TOKEN", "")
	v.SetDefault("UPSTREAM_ORGANIZATION_ID", 56)
	v.SetDefault("UPSTREAM_SERVICE_TYPE_ID", 156)
	v.SetDefault("UPSTREAM_TIMEOUT", 0)
	v.SetDefault("MAPQUEST_BASE_URL", "https://www.mapquestapi.com")
	v.SetDefault("MAPQUEST_API_KEY", "")
	v.SetDefault("IPAPI_BASE_URL", "https://ipapi.co")
	v.SetDefault("CLEAR_ON_SEARCH", false)
	v.SetDefault("DEFAULT_MAX_LOCATIONS", 5)
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load(v *viper.Viper) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, skipping")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

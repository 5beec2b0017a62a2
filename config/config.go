package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Fee modes supported by the platform fee policy.
const (
	FeeModeAdditive = "additive" // customer pays amount + fee, garage keeps the full amount
	FeeModeDeducted = "deducted" // fee comes out of the garage's amount
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase service account used to verify phone-auth ID tokens.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Service record fee policy.
	PlatformFee      float64 `mapstructure:"PLATFORM_FEE"`
	MinServiceAmount float64 `mapstructure:"MIN_SERVICE_AMOUNT"`
	FeeMode          string  `mapstructure:"FEE_MODE"`

	// One-time code settings.
	OTPTTLMinutes  int  `mapstructure:"OTP_TTL_MINUTES"`
	OTPEchoEnabled bool `mapstructure:"OTP_ECHO_ENABLED"`

	// Notification delivery.
	NotifyEnabled bool `mapstructure:"NOTIFY_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "garagelink")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	viper.SetDefault("PLATFORM_FEE", 1.90)
	viper.SetDefault("MIN_SERVICE_AMOUNT", 2.0)
	viper.SetDefault("FEE_MODE", FeeModeAdditive)
	viper.SetDefault("OTP_TTL_MINUTES", 10)
	viper.SetDefault("OTP_ECHO_ENABLED", false)
	viper.SetDefault("NOTIFY_ENABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := validate(&AppConfig); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

// validate enforces the cross-field rules the fee policy depends on.
func validate(cfg *Config) error {
	if cfg.FeeMode != FeeModeAdditive && cfg.FeeMode != FeeModeDeducted {
		return fmt.Errorf("FEE_MODE must be %q or %q, got %q", FeeModeAdditive, FeeModeDeducted, cfg.FeeMode)
	}
	if cfg.PlatformFee < 0 {
		return fmt.Errorf("PLATFORM_FEE must be non-negative, got %v", cfg.PlatformFee)
	}
	// The minimum must exceed the fee so deducted-mode earnings can never go negative.
	if cfg.MinServiceAmount <= cfg.PlatformFee {
		return fmt.Errorf("MIN_SERVICE_AMOUNT (%v) must exceed PLATFORM_FEE (%v)", cfg.MinServiceAmount, cfg.PlatformFee)
	}
	if cfg.OTPTTLMinutes <= 0 {
		return fmt.Errorf("OTP_TTL_MINUTES must be positive, got %d", cfg.OTPTTLMinutes)
	}
	// The raw-code echo is a testing affordance only; it must never survive into production.
	if cfg.Env == "production" {
		cfg.OTPEchoEnabled = false
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

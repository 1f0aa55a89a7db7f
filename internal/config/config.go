package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	Port                 string        `mapstructure:"PORT"`
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RabbitMQURL          string        `mapstructure:"RABBITMQ_URL"`
	ReleaseCheckInterval time.Duration `mapstructure:"RELEASE_CHECK_INTERVAL"`
	RankCacheTTL         time.Duration `mapstructure:"RANK_CACHE_TTL"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("RELEASE_CHECK_INTERVAL", "1m")
	viper.SetDefault("RANK_CACHE_TTL", "30s")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

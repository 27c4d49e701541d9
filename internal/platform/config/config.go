package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Event publishing. Leaving KafkaBrokers empty disables publishing.
	KafkaBrokers []string
	KafkaTopic   string

	// Requests per minute allowed on the draft-commit route.
	CommitRateLimit int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "ledger-events")
	viper.SetDefault("COMMIT_RATE_LIMIT", 60)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	// Comma-separated broker list, e.g. "kafka1:9092,kafka2:9092"
	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.CommitRateLimit = viper.GetInt("COMMIT_RATE_LIMIT")
	if cfg.CommitRateLimit <= 0 {
		cfg.CommitRateLimit = 60
		log.Printf("Warning: Invalid COMMIT_RATE_LIMIT. Defaulting to %d per minute.\n", cfg.CommitRateLimit)
	}

	return cfg, nil
}

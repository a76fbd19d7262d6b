package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StoreDriver selects the persistence backend.
type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMemory   StoreDriver = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	StoreDriver    StoreDriver
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string

	// StoreTimeout bounds every store round-trip made on behalf of a request.
	StoreTimeout      time.Duration
	InstitutionName   string
	IdempotencyKeyTTL time.Duration

	TransferRateLimit  string
	SearchRateLimit    string
	CORSAllowedOrigins []string

	// Outbox delivery
	RabbitMQURL         string
	EventsExchange      string
	OutboxPollInterval  time.Duration
	OutboxBatchSize     int
	MaintenanceSchedule string
	OutboxRetention     time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORE_DRIVER", string(StoreDriverPostgres))
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "secure-blu-vault")
	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("INSTITUTION_NAME", "NexusBank")
	viper.SetDefault("IDEMPOTENCY_KEY_TTL", "24h")
	viper.SetDefault("TRANSFER_RATE_LIMIT", "10-M")
	viper.SetDefault("SEARCH_RATE_LIMIT", "60-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("EVENTS_EXCHANGE", "vault.events")
	viper.SetDefault("OUTBOX_POLL_INTERVAL", "1200ms")
	viper.SetDefault("OUTBOX_BATCH_SIZE", 50)
	viper.SetDefault("MAINTENANCE_SCHEDULE", "@every 1h")
	viper.SetDefault("OUTBOX_RETENTION", "168h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.StoreDriver = StoreDriver(strings.ToLower(viper.GetString("STORE_DRIVER")))
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		log.Printf("Warning: unknown STORE_DRIVER '%s'. Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPostgres)
		cfg.StoreDriver = StoreDriverPostgres
	}
	if cfg.DatabaseURL == "" && cfg.StoreDriver == StoreDriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.StoreTimeout = durationOrDefault("STORE_TIMEOUT", 5*time.Second)
	cfg.IdempotencyKeyTTL = durationOrDefault("IDEMPOTENCY_KEY_TTL", 24*time.Hour)
	cfg.OutboxPollInterval = durationOrDefault("OUTBOX_POLL_INTERVAL", 1200*time.Millisecond)
	cfg.OutboxRetention = durationOrDefault("OUTBOX_RETENTION", 7*24*time.Hour)

	cfg.OutboxBatchSize = viper.GetInt("OUTBOX_BATCH_SIZE")
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 50
	}

	cfg.InstitutionName = viper.GetString("INSTITUTION_NAME")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.TransferRateLimit = viper.GetString("TRANSFER_RATE_LIMIT")
	cfg.SearchRateLimit = viper.GetString("SEARCH_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RabbitMQURL = viper.GetString("RABBITMQ_URL")
	cfg.EventsExchange = viper.GetString("EVENTS_EXCHANGE")
	cfg.MaintenanceSchedule = viper.GetString("MAINTENANCE_SCHEDULE")

	if cfg.RabbitMQURL == "" {
		log.Println("Warning: RABBITMQ_URL not set. Ledger events will be logged instead of published.")
	}

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

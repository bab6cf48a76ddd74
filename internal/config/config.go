package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Dispatcher Dispatcher `yaml:"dispatcher"`
	Browser    Browser    `yaml:"browser"`
	Posters    Posters    `yaml:"posters"`
	S3         S3         `yaml:"s3"`
	Spool      Spool      `yaml:"spool"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Database holds database configuration
type Database struct {
	// PostgreSQL
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	// Connection pool settings
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`
}

// Dispatcher holds posting loop configuration
type Dispatcher struct {
	Enabled          bool          `yaml:"enabled" env:"DISPATCHER_ENABLED" env-default:"false"`
	IdleInterval     time.Duration `yaml:"idle_interval" env:"DISPATCHER_IDLE_INTERVAL" env-default:"5m"`
	RecoveryInterval time.Duration `yaml:"recovery_interval" env:"DISPATCHER_RECOVERY_INTERVAL" env-default:"60s"`
	CycleSleepMin    time.Duration `yaml:"cycle_sleep_min" env:"DISPATCHER_CYCLE_SLEEP_MIN" env-default:"2m"`
	CycleSleepMax    time.Duration `yaml:"cycle_sleep_max" env:"DISPATCHER_CYCLE_SLEEP_MAX" env-default:"8m"`
	PrePostDelayMin  time.Duration `yaml:"pre_post_delay_min" env:"DISPATCHER_PRE_POST_DELAY_MIN" env-default:"10s"`
	PrePostDelayMax  time.Duration `yaml:"pre_post_delay_max" env:"DISPATCHER_PRE_POST_DELAY_MAX" env-default:"30s"`
	MaxRetries       int           `yaml:"max_retries" env:"DISPATCHER_MAX_RETRIES" env-default:"3"`
}

// Browser holds BitBrowser local API configuration
type Browser struct {
	APIURL    string        `yaml:"api_url" env:"BROWSER_API_URL" env-default:"http://127.0.0.1:54345"`
	ResetWait time.Duration `yaml:"reset_wait" env:"BROWSER_RESET_WAIT" env-default:"5s"`
}

// Posters holds the automation command per platform. Empty commands
// leave the platform without a poster, which fails startup validation
// while the dispatcher is enabled.
type Posters struct {
	YouTube        string        `yaml:"youtube" env:"POSTER_YOUTUBE"`
	LinkedIn       string        `yaml:"linkedin" env:"POSTER_LINKEDIN"`
	TikTok         string        `yaml:"tiktok" env:"POSTER_TIKTOK"`
	Pinterest      string        `yaml:"pinterest" env:"POSTER_PINTEREST"`
	Twitter        string        `yaml:"twitter" env:"POSTER_TWITTER"`
	CommandTimeout time.Duration `yaml:"command_timeout" env:"POSTER_COMMAND_TIMEOUT" env-default:"15m"`
}

// S3 holds S3/MinIO storage configuration
type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"media"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/media"`
}

// Spool holds local media staging configuration
type Spool struct {
	Dir string `yaml:"dir" env:"SPOOL_DIR" env-default:"/tmp/autoposter-spool"`
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

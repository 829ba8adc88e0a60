package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.  Optional subsystems (broker, blob storage) read their own
// variables lazily and tolerate absence.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	RabbitURL string // AMQP connection URL; empty disables event publishing

	MinIOEndpoint  string // blob storage endpoint host:port; empty disables uploads
	MinIOAccessKey string // blob storage access key
	MinIOSecretKey string // blob storage secret key
	MinIOBucket    string // bucket holding study place images
	MinIOPublicURL string // base URL under which uploaded objects are reachable
	MinIOUseSSL    bool   // connect to blob storage over TLS

	EngineTimeout time.Duration // per-operation store deadline
	SweepInterval time.Duration // how often elapsed reservations are completed
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Broker and blob
// storage settings are optional so a development instance can run with
// just MySQL.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		RabbitURL: os.Getenv("RABBITMQ_URL"),

		MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    envStr("MINIO_BUCKET", "study-place-images"),
		MinIOPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		MinIOUseSSL:    envBool("MINIO_USE_SSL", false),

		EngineTimeout: envDur("ENGINE_TIMEOUT", 5*time.Second),
		SweepInterval: envDur("COMPLETION_SWEEP_INTERVAL", time.Minute),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

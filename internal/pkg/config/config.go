package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	Port        int    `yaml:"port"`
	ServiceName string `yaml:"service_name"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

// MongoDB connection config
type MongoConfig struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	URI             string        `yaml:"uri"`
	DBName          string        `yaml:"db_name"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_minutes"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout_seconds"`
}

// Redis connection config
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	EnableTLS   bool   `yaml:"enable_tls"`
	CertContent string `yaml:"cert_content"`
}

// Kafka producer config
type KafkaConfig struct {
	Server            string `yaml:"server"`
	LoanEventsTopic   string `yaml:"loan_events_topic"`
	SecurityProtocol  string `yaml:"security_protocol"`
	SASLMechanism     string `yaml:"sasl_mechanism"`
	SASLUsername      string `yaml:"sasl_username"`
	SASLPassword      string `yaml:"sasl_password"`
	ClientID          string `yaml:"client_id"`
	RetryAfterSeconds int    `yaml:"retry_after_seconds"`
	RetryBatchSize    int    `yaml:"retry_batch_size"`
}

type PubSubConfig struct {
	ProjectID         string `yaml:"project_id"`
	NotificationTopic string `yaml:"notification_topic"`
}

type GCSConfig struct {
	BucketName    string `yaml:"bucket_name"`
	DocumentsPath string `yaml:"documents_path"`
	EvidencePath  string `yaml:"evidence_path"`
	MaxUploadMB   int    `yaml:"max_upload_mb"`
}

type OtelConfig struct {
	CollectorURL string `yaml:"collector_url"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// LendingConfig carries the rules applied when no settings document exists,
// plus ledger constants.
type LendingConfig struct {
	OverpaymentTolerance float64 `yaml:"overpayment_tolerance"`
	DefaultLockoutDays   int     `yaml:"default_lockout_days"`
	LockTTLSeconds       int     `yaml:"lock_ttl_seconds"`
	DefaultMinAmount     float64 `yaml:"default_min_amount"`
	DefaultMaxAmount     float64 `yaml:"default_max_amount"`
	DefaultTermOptions   []int   `yaml:"default_term_options"`
	DefaultInterestRate  float64 `yaml:"default_interest_rate"`
}

type WorkerConfig struct {
	PoolSize int `yaml:"pool_size"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LogConfig     `yaml:"logging"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	PubSub  PubSubConfig  `yaml:"pubsub"`
	GCS     GCSConfig     `yaml:"gcs"`
	Otel    OtelConfig    `yaml:"otel"`
	Auth    AuthConfig    `yaml:"auth"`
	Lending LendingConfig `yaml:"lending"`
	Worker  WorkerConfig  `yaml:"worker"`
}

func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	// server config defaults
	cfg.Server.Port = GetEnvOrDefaultAsInt("SERVER_PORT", orInt(cfg.Server.Port, 8080))
	cfg.Server.ServiceName = GetEnvOrDefaultAsString("SERVICE_NAME", orString(cfg.Server.ServiceName, "easyloan"))

	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", orString(cfg.Logging.LogLevel, "info"))

	// MongoDB
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", cfg.Mongo.DBName)
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", orUint64(cfg.Mongo.MaxPoolSize, 20))
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", orUint64(cfg.Mongo.MinPoolSize, 5))
	cfg.Mongo.MaxConnIdleTime = time.Duration(GetEnvOrDefaultAsInt("MONGO_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute
	cfg.Mongo.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	// Redis
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EnableTLS = GetEnvOrDefaultAsInt("REDIS_ENABLE_TLS", boolToInt(cfg.Redis.EnableTLS)) == 1
	cfg.Redis.CertContent = GetEnvOrDefaultAsString("REDIS_TLS_CERT", cfg.Redis.CertContent)

	// Kafka
	cfg.Kafka.Server = GetEnvOrDefaultAsString("KAFKA_SERVER", cfg.Kafka.Server)
	cfg.Kafka.LoanEventsTopic = GetEnvOrDefaultAsString("KAFKA_LOAN_EVENTS_TOPIC", cfg.Kafka.LoanEventsTopic)
	cfg.Kafka.SecurityProtocol = GetEnvOrDefaultAsString("KAFKA_SECURITY_PROTOCOL", cfg.Kafka.SecurityProtocol)
	cfg.Kafka.SASLMechanism = GetEnvOrDefaultAsString("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = GetEnvOrDefaultAsString("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = GetEnvOrDefaultAsString("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)
	cfg.Kafka.ClientID = GetEnvOrDefaultAsString("KAFKA_CLIENT_ID", cfg.Kafka.ClientID)
	cfg.Kafka.RetryAfterSeconds = GetEnvOrDefaultAsInt("KAFKA_RETRY_AFTER_SECONDS", orInt(cfg.Kafka.RetryAfterSeconds, 60))
	cfg.Kafka.RetryBatchSize = GetEnvOrDefaultAsInt("KAFKA_RETRY_BATCH_SIZE", orInt(cfg.Kafka.RetryBatchSize, 100))

	// PubSub
	cfg.PubSub.ProjectID = GetEnvOrDefaultAsString("PROJECT_ID", cfg.PubSub.ProjectID)
	cfg.PubSub.NotificationTopic = GetEnvOrDefaultAsString("PUBSUB_NOTIFICATION_TOPIC", cfg.PubSub.NotificationTopic)

	// GCS
	cfg.GCS.BucketName = GetEnvOrDefaultAsString("GCS_BUCKET_NAME", cfg.GCS.BucketName)
	cfg.GCS.DocumentsPath = GetEnvOrDefaultAsString("GCS_DOCUMENTS_PATH", orString(cfg.GCS.DocumentsPath, "loan-documents"))
	cfg.GCS.EvidencePath = GetEnvOrDefaultAsString("GCS_EVIDENCE_PATH", orString(cfg.GCS.EvidencePath, "repayment-evidence"))
	cfg.GCS.MaxUploadMB = GetEnvOrDefaultAsInt("GCS_MAX_UPLOAD_MB", orInt(cfg.GCS.MaxUploadMB, 10))

	cfg.Otel.CollectorURL = GetEnvOrDefaultAsString("OTEL_COLLECTOR_URL", cfg.Otel.CollectorURL)
	cfg.Auth.JWTSecret = GetEnvOrDefaultAsString("JWT_SECRET", cfg.Auth.JWTSecret)

	// Lending
	cfg.Lending.OverpaymentTolerance = GetEnvOrDefaultAsFloat("LENDING_OVERPAYMENT_TOLERANCE",
		orFloat(cfg.Lending.OverpaymentTolerance, 1))
	cfg.Lending.DefaultLockoutDays = GetEnvOrDefaultAsInt("LENDING_DEFAULT_LOCKOUT_DAYS",
		orInt(cfg.Lending.DefaultLockoutDays, 90))
	cfg.Lending.LockTTLSeconds = GetEnvOrDefaultAsInt("LENDING_LOCK_TTL_SECONDS", orInt(cfg.Lending.LockTTLSeconds, 30))
	cfg.Lending.DefaultMinAmount = GetEnvOrDefaultAsFloat("LENDING_DEFAULT_MIN_AMOUNT",
		orFloat(cfg.Lending.DefaultMinAmount, 10000))
	cfg.Lending.DefaultMaxAmount = GetEnvOrDefaultAsFloat("LENDING_DEFAULT_MAX_AMOUNT",
		orFloat(cfg.Lending.DefaultMaxAmount, 10000000))
	cfg.Lending.DefaultInterestRate = GetEnvOrDefaultAsFloat("LENDING_DEFAULT_INTEREST_RATE",
		orFloat(cfg.Lending.DefaultInterestRate, 5))
	if len(cfg.Lending.DefaultTermOptions) == 0 {
		cfg.Lending.DefaultTermOptions = []int{6, 12, 24, 36}
	}

	cfg.Worker.PoolSize = GetEnvOrDefaultAsInt("WORKER_POOL_SIZE", orInt(cfg.Worker.PoolSize, 10))

	return cfg
}

// LoadFromConfigFilePath loads and parses the config file into AppConfig.
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	// #nosec G304: path comes from operator-controlled env
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		return nil, err
	}

	return defaultCfg, nil
}

func validateConfig(cfg *AppConfig) error {
	mongo := cfg.Mongo
	if mongo.MinPoolSize < 1 || mongo.MinPoolSize > mongo.MaxPoolSize {
		return fmt.Errorf("mongo.min_pool_size must be between 1 and max_pool_size (%d), got %d",
			mongo.MaxPoolSize, mongo.MinPoolSize)
	}
	if mongo.MaxPoolSize > 100 {
		return fmt.Errorf("mongo.max_pool_size must not exceed 100, got %d", mongo.MaxPoolSize)
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set")
	}

	lending := cfg.Lending
	if lending.OverpaymentTolerance < 0 {
		return fmt.Errorf("lending.overpayment_tolerance must not be negative, got %v", lending.OverpaymentTolerance)
	}
	if lending.DefaultLockoutDays < 1 {
		return fmt.Errorf("lending.default_lockout_days must be positive, got %d", lending.DefaultLockoutDays)
	}
	if lending.DefaultMinAmount <= 0 || lending.DefaultMinAmount > lending.DefaultMaxAmount {
		return fmt.Errorf("lending.default_min_amount must be positive and not exceed default_max_amount, got %v",
			lending.DefaultMinAmount)
	}
	for _, term := range lending.DefaultTermOptions {
		if term <= 0 {
			return fmt.Errorf("lending.default_term_options must be positive, got %d", term)
		}
	}
	if lending.LockTTLSeconds < 1 || lending.LockTTLSeconds > 300 {
		return fmt.Errorf("lending.lock_ttl_seconds must be between 1 and 300, got %d", lending.LockTTLSeconds)
	}

	if cfg.Worker.PoolSize < 1 || cfg.Worker.PoolSize > 100 {
		return fmt.Errorf("worker.pool_size must be between 1 and 100, got %d", cfg.Worker.PoolSize)
	}

	return nil
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

// GetEnvOrDefaultAsUint64 returns the value of the env variable
// as uint64 or the default value if not set or invalid.
func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if strings.TrimSpace(val) != "" {
			return val
		}
	}
	return defaultVal
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orUint64(v, def uint64) uint64 {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LoadFromConfig loads an optional .env file and then the config file named by CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	JWT      JWTConfig
	Claims   ClaimsConfig
	Render   RenderConfig
	Issuer   IssuerConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	Migrate  bool
}

// StoreConfig selects the persistent store. "memory" keeps everything in
// process and is meant for local runs without Postgres.
type StoreConfig struct {
	Driver string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type ClaimsConfig struct {
	// OperationTimeout bounds store and render I/O of a single operation.
	OperationTimeout time.Duration
}

type RenderConfig struct {
	ChromiumPath string
	Timeout      time.Duration
	TimeZone     string
}

// IssuerConfig is the fixed sender address printed on every invoice.
type IssuerConfig struct {
	Name         string
	Street       string
	Area         string
	City         string
	Province     string
	PhoneNumber  string
	Email        string
	SupportEmail string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work as well (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getSeconds("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getSeconds("SERVER_WRITE_TIMEOUT", 30),
			BodyLimit:    getInt("SERVER_BODY_LIMIT_MB", 10) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cmcs"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getInt("DB_MAX_CONNS", 10)),
			Migrate:  getBool("DB_MIGRATE", true),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "postgres"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(getInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		},
		Claims: ClaimsConfig{
			OperationTimeout: getDuration("OPERATION_TIMEOUT", 30*time.Second),
		},
		Render: RenderConfig{
			ChromiumPath: getEnv("PDF_CHROMIUM_PATH", ""),
			Timeout:      getDuration("PDF_TIMEOUT", 15*time.Second),
			TimeZone:     getEnv("PDF_TIMEZONE", "Africa/Johannesburg"),
		},
		Issuer: IssuerConfig{
			Name:         getEnv("ISSUER_NAME", "Contract Monthly Claims System"),
			Street:       getEnv("ISSUER_STREET", "164 Evergreen Lane"),
			Area:         getEnv("ISSUER_AREA", "Greenfield Heights"),
			City:         getEnv("ISSUER_CITY", "Johannesburg"),
			Province:     getEnv("ISSUER_PROVINCE", "Gauteng"),
			PhoneNumber:  getEnv("ISSUER_PHONE", "011 682 7901"),
			Email:        getEnv("ISSUER_EMAIL", "claims@cmcs.edu.za"),
			SupportEmail: getEnv("ISSUER_SUPPORT_EMAIL", "support@cmcs.edu.za"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getInt(key, defaultValue)) * time.Second
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

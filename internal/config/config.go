package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

type Config struct {
	StorageDriver string
	DataFile      string
	SQLitePath    string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Key       string
	S3PathStyle bool

	HTTPAddr       string
	AllowedOrigins []string
	TopN           int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Failed to read .env file:", err)
	}

	return Config{
		StorageDriver: getEnv("STORAGE_DRIVER", DriverCSV),
		DataFile:      getEnv("DATA_FILE", "students_data.csv"),
		SQLitePath:    getEnv("SQLITE_PATH", "students.db"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "studentdb"),
		DBPort:     getEnv("DB_PORT", "5432"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Key:       getEnv("S3_KEY", "students_data.csv"),
		S3PathStyle: strings.EqualFold(os.Getenv("S3_PATH_STYLE"), "true"),

		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		TopN:           getEnvInt("TOP_N", 5),
	}
}

// PostgresDSN builds the connection string for the postgres driver.
func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Printf("Ignoring invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIAPIKey string
	ModelName    string
	Temperature  float64

	Host         string
	HTTPPort     string
	AllowOrigins []string

	MongoURI        string
	MongoDBName     string
	MongoPingWindow time.Duration
	DataDir         string

	LogLevel string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		ModelName:    getEnv("MODEL_NAME", "gpt-4o-mini"),
		Temperature:  getEnvAsFloat("TEMPERATURE", 0),

		Host:         getEnv("HOST", "127.0.0.1"),
		HTTPPort:     getEnv("PORT", "8000"),
		AllowOrigins: splitOrigins(getEnv("ALLOW_ORIGINS", "*")),

		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "resume_chat_app"),
		MongoPingWindow: getEnvAsDuration("MONGO_PING_TIMEOUT", 5*time.Second),
		DataDir:         getEnv("DATA_DIR", "data"),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

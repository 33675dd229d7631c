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
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Sources  SourcesConfig
	OpenAI   OpenAIConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

type EngineConfig struct {
	RefreshInterval time.Duration
	AdapterTimeout  time.Duration
	TopActions      int
	SelfEmails      []string
	DossierTTL      time.Duration
	InsightTTL      time.Duration
	BriefingTTL     time.Duration
}

type SourcesConfig struct {
	CalendarURL string
	MailURL     string
	NoteURL     string
	TodoURL     string
	Token       string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./daybrief.db"),
		},
		Engine: EngineConfig{
			RefreshInterval: getEnvAsSeconds("REFRESH_INTERVAL_SECONDS", 30),
			AdapterTimeout:  getEnvAsSeconds("ADAPTER_TIMEOUT_SECONDS", 3),
			TopActions:      getEnvAsInt("TOP_ACTIONS", 5),
			SelfEmails:      getEnvAsList("SELF_EMAILS"),
			DossierTTL:      getEnvAsSeconds("DOSSIER_TTL_SECONDS", 600),
			InsightTTL:      getEnvAsSeconds("INSIGHT_TTL_SECONDS", 1800),
			BriefingTTL:     getEnvAsSeconds("BRIEFING_TTL_SECONDS", 10800),
		},
		Sources: SourcesConfig{
			CalendarURL: getEnv("CALENDAR_SOURCE_URL", ""),
			MailURL:     getEnv("MAIL_SOURCE_URL", ""),
			NoteURL:     getEnv("NOTE_SOURCE_URL", ""),
			TodoURL:     getEnv("TODO_SOURCE_URL", ""),
			Token:       getEnv("SOURCE_TOKEN", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSeconds gets an environment variable as a duration in seconds
func getEnvAsSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Second
}

// getEnvAsList gets a comma-separated environment variable as a slice
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port          string
	CatalogSource string

	DBDriver   string // postgres | sqlite
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	SessionSecret string
	SecureCookies bool
	CORSOrigins   []string

	MaxDocumentBytes int
	TokenTTL         time.Duration
}

// Load reads the configuration from environment variables, applying defaults.
func Load() Config {
	cfg := Config{
		Port:             getenv("PORT", "8080"),
		CatalogSource:    getenv("CATALOG_SOURCE", "materias.json"),
		DBDriver:         strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBDSN:            os.Getenv("DB_DSN"),
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenv("DB_NAME", "materias"),
		DBSSLMode:        getenv("DB_SSLMODE", "disable"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SecureCookies:    getbool("SECURE_COOKIES", false),
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "")),
		MaxDocumentBytes: getint("MAX_DOCUMENT_BYTES", 1<<20),
		TokenTTL:         getduration("TOKEN_TTL", 30*24*time.Hour),
	}

	if cfg.SessionSecret == "" {
		// Sessions still work, but they do not survive a restart.
		log.Println("SESSION_SECRET не задан, используется случайный ключ")
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Неверное значение %s=%q, используется %v", key, v, def)
		return def
	}
	return b
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Неверное значение %s=%q, используется %d", key, v, def)
		return def
	}
	return n
}

func getduration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Неверное значение %s=%q, используется %s", key, v, def)
		return def
	}
	return d
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

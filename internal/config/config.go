package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort        string
	MongoURI          string
	MongoDB           string
	RedisAddr         string
	RedisDB           int
	RedisPass         string
	JWTSecret         string
	JWTTTLMinutes     int
	Environment       string
	AuthBypassEnabled bool
	TestTokenSecret   string
	CORSOrigins       []string
	APIPrefix         string
	SwaggerHost       string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "nutritrack"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me"),
		JWTTTLMinutes:     getEnvInt("JWT_TTL_MINUTES", 30),
		Environment:       getEnv("ENVIRONMENT", "development"),
		AuthBypassEnabled: getEnvBool("AUTH_BYPASS_ENABLED", true),
		TestTokenSecret:   os.Getenv("TEST_TOKEN_SECRET"),
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"*"}),
		APIPrefix:         getEnv("API_PREFIX", "/api/v1"),
		SwaggerHost:       os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether the service runs with ENVIRONMENT=production.
// The dev-token bypass and the test-token endpoint are disabled in that case.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// BypassAllowed reports whether the dev-token bypass may be honored.
func (c *Config) BypassAllowed() bool {
	return c.AuthBypassEnabled && !c.IsProduction()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

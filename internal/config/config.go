package config

import "os"

// Config holds server configuration read from the environment.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisURI      string
	JWTSecret     string
	LogFile       string

	CORSAllowedOrigins string
	CORSAllowedMethods string
	CORSAllowedHeaders string
}

// Load returns the configuration with defaults applied for anything unset.
func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "3001"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "pong"),
		RedisURI:      getenv("REDIS_URI", "localhost:6379"),
		JWTSecret:     getenv("JWT_SECRET", "super-secret-key-change-in-production"),
		LogFile:       getenv("LOG_FILE", "app.log"),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods: getenv("CORS_ALLOWED_METHODS", "GET, POST, OPTIONS"),
		CORSAllowedHeaders: getenv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

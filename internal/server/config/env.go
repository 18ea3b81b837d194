package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables win over .env values (godotenv does not override existing ones).
//
// Duration variables accept time.ParseDuration strings ("30m", "720h").
// Invalid durations are ignored rather than fatal, so a stray variable
// cannot prevent startup.
func parseEnv(config *Config) {

	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddrHTTP)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("JWT_ACCESS_SECRET", &config.AccessSecret)
	setString("JWT_REFRESH_SECRET", &config.RefreshSecret)
	setDuration("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	setString("SESSION_STORE", &config.SessionStore)
	setString("REDIS_ADDR", &config.RedisAddr)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}

// Package config loads and validates Clubhouse API configuration.
//
// Values come from environment variables with development defaults. An
// optional .env file is read first; variables already present in the
// environment take precedence over it.
//
//	cfg, err := config.Load()
//	if err == nil {
//	    err = cfg.Validate()
//	}
//
// Key variables:
//
//	SERVER_PORT, SERVER_ENV, LOG_LEVEL, CORS_ALLOWED_ORIGINS
//	DB_HOST, DB_PORT, DB_NAMESPACE, DB_DATABASE, DB_USER, DB_PASSWORD
//	JWT_PRIVATE_KEY_PATH, JWT_PUBLIC_KEY_PATH, JWT_ISSUER, JWT_EXPIRATION_MINS
//	MEMBERSHIP_MODE (paired | atomic)
//	RATE_LIMIT_ENABLED, RATE_LIMIT_RPM, RATE_LIMIT_BURST
package config

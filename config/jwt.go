package config

import (
	"errors"
	"os"
	"time"
)

const devSecret = "your-secret-key-change-this-in-production"

type AuthConfig struct {
	JWTSecret        []byte
	SessionLifetime  time.Duration
	RememberLifetime time.Duration
	SecureCookies    bool
}

func loadAuth(production bool) (AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if production {
			return AuthConfig{}, errors.New("JWT_SECRET is required in production")
		}
		secret = devSecret
	}

	session, err := getDuration("SESSION_LIFETIME", 24*time.Hour)
	if err != nil {
		return AuthConfig{}, err
	}
	remember, err := getDuration("REMEMBER_LIFETIME", 30*24*time.Hour)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		JWTSecret:        []byte(secret),
		SessionLifetime:  session,
		RememberLifetime: remember,
		SecureCookies:    production,
	}, nil
}

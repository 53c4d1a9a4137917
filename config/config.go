// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	PromoteAdmin = pflag.String("promote-admin", "", "Grants admin rights to the user with this email or username and exits")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup parses the command line and loads the configuration. Function
// will return an error if something is critically wrong and the
// application can't run because of that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	return Load()
}

// Load reads config.toml (when present) and the environment into the
// global viper instance and validates the result
func Load() error {
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors_origins", "HOST_CORS_ORIGINS")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.access_ttl", "JWT_ACCESS_TTL")
	v.BindEnv("jwt.refresh_ttl", "JWT_REFRESH_TTL")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	v.BindEnv("cookie.secure", "COOKIE_SECURE")
	v.BindEnv("cookie.partitioned", "COOKIE_PARTITIONED")

	v.BindEnv("cache.comments_ttl", "CACHE_COMMENTS_TTL")

	v.BindEnv("cloudflare.turnstile.enabled", "CLOUDFLARE_TURNSTILE_ENABLED")
	v.BindEnv("cloudflare.turnstile.secret_token", "CLOUDFLARE_TURNSTILE_SECRET_TOKEN")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("host.max_body_size", 1<<20)

	v.SetDefault("jwt.access_ttl", time.Minute)
	v.SetDefault("jwt.refresh_ttl", 12*time.Hour)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("cookie.secure", true)
	v.SetDefault("cookie.partitioned", true)

	v.SetDefault("cache.comments_ttl", time.Duration(0))

	v.SetDefault("cloudflare.turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt64("host.max_body_size") <= 0 {
		return errors.New("host.max_body_size must be bigger than 0")
	}

	// HOST_CORS_ORIGINS comes in as a single comma separated string
	origins := []string{}
	for _, o := range v.GetStringSlice("host.cors_origins") {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	v.Set("host.cors_origins", origins)

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetDuration("jwt.access_ttl") <= 0 {
		return errors.New("jwt.access_ttl must be bigger than 0")
	}

	if v.GetDuration("jwt.refresh_ttl") <= v.GetDuration("jwt.access_ttl") {
		return errors.New("jwt.refresh_ttl must be longer than jwt.access_ttl")
	}

	if v.GetDuration("cache.comments_ttl") < 0 {
		return errors.New("cache.comments_ttl can't be negative")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if !v.GetBool("cloudflare.turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Some public endpoints won't be guarded against bots")
	} else {
		if v.GetString("cloudflare.turnstile.secret_token") == "" {
			return errors.New("turnstile secret token is missing")
		}
	}

	return nil
}

// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address"`

	// DatabaseDSN holds the PostgreSQL connection string. When empty the
	// JSON file store is used instead.
	DatabaseDSN string `json:"database_dsn"`

	// StoragePath is the directory holding the JSON collection files.
	StoragePath string `json:"storage_path"`

	// JWTSecret signs identity tokens.
	JWTSecret string `json:"jwt_secret"`

	// TokenTTL is the identity token lifetime.
	TokenTTL time.Duration `json:"token_ttl"`

	// SecretsKey enables AES-GCM encryption at rest for credential
	// secrets when non-empty. Empty keeps the plaintext behavior.
	SecretsKey string `json:"secrets_key"`

	// Config is the path to the config file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "postgres dsn (empty = json file store)")
	flag.StringVar(&options.StoragePath, "s", "data", "data directory for the json file store")
	flag.StringVar(&options.JWTSecret, "k", "dev-secret-change-me", "jwt signing secret")
	flag.DurationVar(&options.TokenTTL, "t", 15*time.Minute, "identity token lifetime")
	flag.StringVar(&options.SecretsKey, "e", "", "credential encryption key (empty = plaintext)")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if path := os.Getenv("STORAGE_PATH"); path != "" {
		options.StoragePath = path
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("error while parsing TOKEN_TTL: %v", err)
		}
		options.TokenTTL = d
	}
	if key := os.Getenv("SECRETS_KEY"); key != "" {
		options.SecretsKey = key
	}

	return options
}

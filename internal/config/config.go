// Package config loads server configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Runtime holds the values served to the browser by /config.js. They
// are a seam for a future remote-sync backend; the core never reads
// them.
type Runtime struct {
	APIKey            string `env:"RUNTIME_API_KEY" json:"apiKey,omitempty"`
	AuthDomain        string `env:"RUNTIME_AUTH_DOMAIN" json:"authDomain,omitempty"`
	ProjectID         string `env:"RUNTIME_PROJECT_ID" json:"projectId,omitempty"`
	StorageBucket     string `env:"RUNTIME_STORAGE_BUCKET" json:"storageBucket,omitempty"`
	MessagingSenderID string `env:"RUNTIME_MESSAGING_SENDER_ID" json:"messagingSenderId,omitempty"`
	AppID             string `env:"RUNTIME_APP_ID" json:"appId,omitempty"`
	MeasurementID     string `env:"RUNTIME_MEASUREMENT_ID" json:"measurementId,omitempty"`
}

// Config is the full server configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite database file holding the state document.
	DBPath string `env:"DB_PATH" envDefault:"./data/chorewheel.db"`

	// GrantSecret signs grant tokens. Empty means a random per-process
	// secret, which is fine for a single long-running server.
	GrantSecret string `env:"GRANT_SECRET"`

	// Runtime is the browser runtime configuration, see above.
	Runtime Runtime
}

// Load reads the configuration. A .env file in the working directory or
// a parent is loaded first if present, matching how the server is run
// in development.
func Load() (*Config, error) {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

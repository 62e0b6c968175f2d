package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	OwnerKey      string
	TokenSecret   string
	LinkTokenSalt string
	SweepInterval time.Duration
}

// ParseFlags validates flags and fills in defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var sweep string

	fs := flag.NewFlagSet("tribunal", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&sweep, "sweep", "", "Expiry sweep interval (0 disables)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.OwnerKey, "owner-key", "", "Owner login key (prefer env)")
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "Owner token signing secret (prefer env)")
	fs.StringVar(&cfg.LinkTokenSalt, "link-salt", "", "Link token salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3410 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if sweep == "" {
		sweep = os.Getenv("SWEEP_INTERVAL")
	}
	if sweep == "" {
		cfg.SweepInterval = 30 * time.Second
	} else {
		d, err := time.ParseDuration(sweep)
		if err != nil || d < 0 {
			return Config{}, errors.New("invalid sweep interval")
		}
		cfg.SweepInterval = d
	}

	// Secrets - MUST be provided
	if cfg.OwnerKey == "" {
		cfg.OwnerKey = os.Getenv("OWNER_KEY")
	}
	if cfg.OwnerKey == "" {
		return Config{}, errors.New("OWNER_KEY required")
	}

	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("TOKEN_SECRET required")
	}

	if cfg.LinkTokenSalt == "" {
		cfg.LinkTokenSalt = os.Getenv("LINK_TOKEN_SALT")
	}
	if cfg.LinkTokenSalt == "" {
		return Config{}, errors.New("LINK_TOKEN_SALT required")
	}

	return cfg, nil
}

package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// Config holds runtime settings for the directory server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: sqlite DSN (sqliteshim).
//   - SigningKey: HMAC secret for signing session tokens (HS256). Do not
//     use the development default in production.
//   - CookieName: name of the session cookie.
//   - TokenExpirationHours: session lifetime, non-sliding.
//   - Issuer / Audience: token issuer and audience claims.
//   - AdminLogin / AdminPassword / AdminName: the default admin account
//     seeded idempotently at startup.
type Config struct {
	HTTPAddr             string
	DatabaseDSN          string
	SigningKey           string
	CookieName           string
	TokenExpirationHours int
	Issuer               string
	Audience             []string
	AdminLogin           string
	AdminPassword        string
	AdminName            string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabaseDSN = "file:directory.db?cache=shared&mode=rwc"
	c.SigningKey = "insecure-dev-key"
	c.CookieName = "directory_session"
	c.TokenExpirationHours = 24
	c.Issuer = "go-directory"
	c.Audience = []string{"directory:api"}
	c.AdminLogin = "Admin"
	c.AdminPassword = "AdminPass123"
	c.AdminName = "Admin"
}

// LoadConfig builds a Config by applying defaults, then overlaying
// values from environment variables and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("DIRECTORY_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DIRECTORY_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("DIRECTORY_SIGNING_KEY"); v != "" {
		cfg.SigningKey = v
	}
	if v := os.Getenv("DIRECTORY_COOKIE_NAME"); v != "" {
		cfg.CookieName = v
	}
	if v := os.Getenv("DIRECTORY_TOKEN_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.TokenExpirationHours = hours
		}
	}
	if v := os.Getenv("DIRECTORY_ISSUER"); v != "" {
		cfg.Issuer = v
	}
	if v := os.Getenv("DIRECTORY_AUDIENCE"); v != "" {
		cfg.Audience = strings.Split(v, ",")
	}
	if v := os.Getenv("DIRECTORY_ADMIN_LOGIN"); v != "" {
		cfg.AdminLogin = v
	}
	if v := os.Getenv("DIRECTORY_ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	if v := os.Getenv("DIRECTORY_ADMIN_NAME"); v != "" {
		cfg.AdminName = v
	}
}

func parseFlags(cfg *Config) {
	flag.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP bind address")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	flag.StringVar(&cfg.SigningKey, "s", cfg.SigningKey, "session token signing key")
	flag.IntVar(&cfg.TokenExpirationHours, "t", cfg.TokenExpirationHours, "session lifetime in hours")
	flag.Parse()
}

// The getters below satisfy directory.Config.

func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

func (c *Config) GetContextKey() string {
	return c.CookieName
}

func (c *Config) GetTokenExpiration() int {
	return c.TokenExpirationHours
}

func (c *Config) GetIssuer() string {
	return c.Issuer
}

func (c *Config) GetAudience() []string {
	return c.Audience
}

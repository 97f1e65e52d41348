package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	// SigningKey is the process-wide secret used to sign values carried
	// through the client between the import upload and confirm steps.
	SigningKey string
	// ImportFormats lists the file extensions (without dot) the bulk-import
	// upload form accepts.
	ImportFormats   []string
	SessionLifetime time.Duration
	InsecureCookies bool
}

// Load reads config from environment (RELINK_ prefix) and optional relink.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("relink")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("import.formats", "csv,tsv")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.SigningKey = v.GetString("signing_key")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	for _, ext := range strings.Split(v.GetString("import.formats"), ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			cfg.ImportFormats = append(cfg.ImportFormats, ext)
		}
	}

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid RELINK_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("RELINK_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("RELINK_DB_DSN is required")
	}
	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("RELINK_SIGNING_KEY is required")
	}
	if cfg.OIDC.Issuer == "" {
		return nil, fmt.Errorf("RELINK_OIDC_ISSUER is required")
	}
	if cfg.OIDC.ClientID == "" {
		return nil, fmt.Errorf("RELINK_OIDC_CLIENT_ID is required")
	}
	if cfg.OIDC.ClientSecret == "" {
		return nil, fmt.Errorf("RELINK_OIDC_CLIENT_SECRET is required")
	}
	if cfg.OIDC.RedirectURL == "" {
		return nil, fmt.Errorf("RELINK_OIDC_REDIRECT_URL is required")
	}

	return cfg, nil
}

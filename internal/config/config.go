package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "LMSADMIN"

// Config is the resolved client/devserver configuration.
type Config struct {
	APIURL     string
	APITimeout time.Duration
	AuthURL    string

	LogLevel  string
	LogFormat string
	LogFile   string

	OutputFormat string

	DevAddr   string
	DevDriver string
	DevDSN    string
	DevSecret string

	// Dir is the config directory (session file, logs, config.yaml).
	Dir string
}

// Dir returns the config directory: $LMSADMIN_CONFIG_DIR, else ~/.lmsadmin.
func Dir() (string, error) {
	// Tests point this at a temp dir so they never touch ~/.lmsadmin.
	if v := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lmsadmin"), nil
}

// New returns a viper instance with defaults, config.yaml from the config dir, an
// optional ./.env and LMSADMIN_* environment overrides wired in.
func New() (*viper.Viper, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("api.url", "http://localhost:8787")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("auth.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", filepath.Join(dir, "lmsadmin.log"))
	v.SetDefault("output.format", "json")
	v.SetDefault("devserver.addr", "127.0.0.1:8787")
	v.SetDefault("devserver.driver", "sqlite")
	v.SetDefault("devserver.dsn", filepath.Join(dir, "devserver.sqlite"))
	v.SetDefault("devserver.secret", "dev-secret-change-me")

	// .env is optional; a missing file is fine.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, err
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Load resolves Config from v.
func Load(v *viper.Viper) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	c := Config{
		APIURL:       strings.TrimRight(strings.TrimSpace(v.GetString("api.url")), "/"),
		APITimeout:   v.GetDuration("api.timeout"),
		AuthURL:      strings.TrimRight(strings.TrimSpace(v.GetString("auth.url")), "/"),
		LogLevel:     v.GetString("log.level"),
		LogFormat:    v.GetString("log.format"),
		LogFile:      v.GetString("log.file"),
		OutputFormat: v.GetString("output.format"),
		DevAddr:      v.GetString("devserver.addr"),
		DevDriver:    v.GetString("devserver.driver"),
		DevDSN:       v.GetString("devserver.dsn"),
		DevSecret:    v.GetString("devserver.secret"),
		Dir:          dir,
	}
	// The auth provider defaults to the API host.
	if c.AuthURL == "" {
		c.AuthURL = c.APIURL
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	return c, nil
}

// SessionPath is where the auth provider's session is cached.
func (c Config) SessionPath() string {
	return filepath.Join(c.Dir, "session.json")
}

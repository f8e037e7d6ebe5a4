package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/blogem/windows-live-authenticator/authenticator"
)

// envPrefix prefixes every Windows Live setting
const envPrefix = "WINDOWS_LIVE_"

// Config is the host configuration
type Config struct {
	Port         string
	BaseURL      string
	DatabasePath string
	UseHTTPS     bool
	LogLevel     string
	HTTPTimeout  time.Duration
	WindowsLive  WindowsLiveConfig
}

// WindowsLiveConfig configures the single authenticator instance
type WindowsLiveConfig struct {
	ID                    string
	ClientID              string
	ClientSecret          string
	AuthorizationEndpoint string
	TokenEndpoint         string
	Permissions           authenticator.Permissions
}

// fileConfig is the layout of the optional YAML file
type fileConfig struct {
	WindowsLive struct {
		ID                    string            `yaml:"id"`
		ClientID              string            `yaml:"client_id"`
		ClientSecret          string            `yaml:"client_secret"`
		AuthorizationEndpoint string            `yaml:"authorization_endpoint"`
		TokenEndpoint         string            `yaml:"token_endpoint"`
		Permissions           map[string]string `yaml:"permissions"`
	} `yaml:"windows_live"`
}

// permissionField binds a permission name to its field. Exactly one of
// flag and access is set.
type permissionField struct {
	name   string
	flag   func(p *authenticator.Permissions) *bool
	access func(p *authenticator.Permissions) *authenticator.Access
}

var permissionFields = []permissionField{
	{name: "offline_access", flag: func(p *authenticator.Permissions) *bool { return &p.OfflineAccess }},
	{name: "single_sign_in", flag: func(p *authenticator.Permissions) *bool { return &p.SingleSignIn }},
	{name: "birthday", flag: func(p *authenticator.Permissions) *bool { return &p.Birthday }},
	{name: "calendars", access: func(p *authenticator.Permissions) *authenticator.Access { return &p.Calendars }},
	{name: "contacts_birthday", flag: func(p *authenticator.Permissions) *bool { return &p.ContactsBirthday }},
	{name: "contacts_create", flag: func(p *authenticator.Permissions) *bool { return &p.ContactsCreate }},
	{name: "contacts_calendars", flag: func(p *authenticator.Permissions) *bool { return &p.ContactsCalendars }},
	{name: "contacts_photos", flag: func(p *authenticator.Permissions) *bool { return &p.ContactsPhotos }},
	{name: "contacts_onedrive", flag: func(p *authenticator.Permissions) *bool { return &p.ContactsOneDrive }},
	{name: "emails", flag: func(p *authenticator.Permissions) *bool { return &p.Emails }},
	{name: "events_create", flag: func(p *authenticator.Permissions) *bool { return &p.EventsCreate }},
	{name: "imap", flag: func(p *authenticator.Permissions) *bool { return &p.IMAP }},
	{name: "phone_numbers", flag: func(p *authenticator.Permissions) *bool { return &p.PhoneNumbers }},
	{name: "photos", flag: func(p *authenticator.Permissions) *bool { return &p.Photos }},
	{name: "postal_addresses", flag: func(p *authenticator.Permissions) *bool { return &p.PostalAddresses }},
	{name: "onedrive", access: func(p *authenticator.Permissions) *authenticator.Access { return &p.OneDrive }},
	{name: "work_profile", flag: func(p *authenticator.Permissions) *bool { return &p.WorkProfile }},
	{name: "onenote", flag: func(p *authenticator.Permissions) *bool { return &p.OneNote }},
}

func (f permissionField) set(p *authenticator.Permissions, value string) error {
	if f.access != nil {
		level, err := authenticator.ParseAccess(value)
		if err != nil {
			return fmt.Errorf("permission %s: %w", f.name, err)
		}
		*f.access(p) = level
		return nil
	}

	enabled, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("permission %s: invalid boolean %q", f.name, value)
	}
	*f.flag(p) = enabled
	return nil
}

// Load reads .env when present, then the optional YAML file, then the
// environment. Environment values win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load the env vars: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment
func FromEnv() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		Port:         port,
		BaseURL:      strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+port), "/"),
		DatabasePath: getEnv("DATABASE_PATH", "windows_live_authn.db"),
		UseHTTPS:     os.Getenv("USE_HTTPS") == "true",
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		HTTPTimeout:  authenticator.DefaultHTTPTimeout,
	}

	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q", raw)
		}
		cfg.HTTPTimeout = timeout
	}

	if path := os.Getenv("AUTHENTICATOR_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.WindowsLive.ID == "" {
		cfg.WindowsLive.ID = authenticator.PluginType
	}

	return cfg, nil
}

// applyFile loads the Windows Live section of a YAML file
func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open authenticator config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(file).Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse authenticator config %s: %w", path, err)
	}

	wl := &c.WindowsLive
	wl.ID = fc.WindowsLive.ID
	wl.ClientID = fc.WindowsLive.ClientID
	wl.ClientSecret = fc.WindowsLive.ClientSecret
	wl.AuthorizationEndpoint = fc.WindowsLive.AuthorizationEndpoint
	wl.TokenEndpoint = fc.WindowsLive.TokenEndpoint

	for name, value := range fc.WindowsLive.Permissions {
		field, ok := lookupPermission(name)
		if !ok {
			return fmt.Errorf("unknown permission %q in %s", name, path)
		}
		if err := field.set(&wl.Permissions, value); err != nil {
			return err
		}
	}
	return nil
}

// applyEnv overrides the Windows Live settings from WINDOWS_LIVE_* variables
func (c *Config) applyEnv() error {
	wl := &c.WindowsLive
	overrideEnv(&wl.ID, envPrefix+"AUTHENTICATOR_ID")
	overrideEnv(&wl.ClientID, envPrefix+"CLIENT_ID")
	overrideEnv(&wl.ClientSecret, envPrefix+"CLIENT_SECRET")
	overrideEnv(&wl.AuthorizationEndpoint, envPrefix+"AUTHORIZATION_ENDPOINT")
	overrideEnv(&wl.TokenEndpoint, envPrefix+"TOKEN_ENDPOINT")

	for _, field := range permissionFields {
		value, ok := os.LookupEnv(envPrefix + strings.ToUpper(field.name))
		if !ok {
			continue
		}
		if err := field.set(&wl.Permissions, value); err != nil {
			return err
		}
	}
	return nil
}

// AuthenticationPath is where the host mounts the authenticator handlers
func (c *Config) AuthenticationPath() string {
	return "/authn/" + c.WindowsLive.ID
}

// AuthenticatorConfig builds the authenticator configuration
func (c *Config) AuthenticatorConfig(logger *zap.Logger) authenticator.Config {
	return authenticator.Config{
		ID:                    c.WindowsLive.ID,
		ClientID:              c.WindowsLive.ClientID,
		ClientSecret:          c.WindowsLive.ClientSecret,
		AuthorizationEndpoint: c.WindowsLive.AuthorizationEndpoint,
		TokenEndpoint:         c.WindowsLive.TokenEndpoint,
		Permissions:           c.WindowsLive.Permissions,
		HTTPClient:            &http.Client{Timeout: c.HTTPTimeout},
		Info:                  authenticator.StaticInformation(c.BaseURL + c.AuthenticationPath()),
		Logger:                logger,
	}
}

func lookupPermission(name string) (permissionField, bool) {
	for _, field := range permissionFields {
		if field.name == strings.ToLower(name) {
			return field, true
		}
	}
	return permissionField{}, false
}

func overrideEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

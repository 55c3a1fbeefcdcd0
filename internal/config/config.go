// Package config resolves profilectl settings from defaults, the YAML config
// file, a .env file, the environment and command-line overrides, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/takeme/profilectl/internal/api"
	"github.com/takeme/profilectl/internal/cache"
	"github.com/takeme/profilectl/internal/validation"
)

const (
	appName  = "profilectl"
	FileName = "profilectl.yaml"
)

// Environment variables read by Load.
const (
	EnvBaseURL       = "PROFILECTL_BASE_URL"
	EnvTimeout       = "PROFILECTL_TIMEOUT"
	EnvUserAgent     = "PROFILECTL_USER_AGENT"
	EnvCache         = "PROFILECTL_CACHE"
	EnvCacheTTL      = "PROFILECTL_CACHE_TTL"
	EnvCacheDir      = "PROFILECTL_CACHE_DIR"
	EnvRedisAddr     = "PROFILECTL_REDIS_ADDR"
	EnvRedisPassword = "PROFILECTL_REDIS_PASSWORD"
	EnvRedisDB       = "PROFILECTL_REDIS_DB"
	EnvOutput        = "PROFILECTL_OUTPUT"
	EnvConfig        = "PROFILECTL_CONFIG"
)

var userConfigDir = os.UserConfigDir

// File mirrors profilectl.yaml.
type File struct {
	BaseURL   string    `yaml:"base_url,omitempty"`
	Timeout   string    `yaml:"timeout,omitempty"`
	UserAgent string    `yaml:"user_agent,omitempty"`
	Output    string    `yaml:"output,omitempty"`
	Cache     CacheFile `yaml:"cache,omitempty"`
}

type CacheFile struct {
	Backend string    `yaml:"backend,omitempty"`
	TTL     string    `yaml:"ttl,omitempty"`
	Dir     string    `yaml:"dir,omitempty"`
	Redis   RedisFile `yaml:"redis,omitempty"`
}

type RedisFile struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// Settings are the resolved values the CLI runs with.
type Settings struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Output    string
	Cache     cache.Options

	// Path is the config file that was read, empty when none was found.
	Path string
}

// Overrides carries command-line values. Zero values and nil pointers mean
// "not set".
type Overrides struct {
	ConfigPath string
	BaseURL    string
	Timeout    *time.Duration
	Cache      string
	Output     string
	EnvFile    string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		BaseURL: api.DefaultBaseURL,
		Timeout: api.DefaultTimeout,
		Output:  "text",
		Cache: cache.Options{
			Backend: cache.BackendNone,
			TTL:     cache.DefaultTTL,
		},
	}
}

// Load resolves settings. A missing config file is not an error; an
// unreadable or malformed one is.
func Load(o Overrides) (Settings, error) {
	s := Defaults()

	dotenv, err := readDotEnv(o.EnvFile)
	if err != nil {
		return Settings{}, err
	}
	env := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}

	path, explicit := configPath(o.ConfigPath, env(EnvConfig))
	f, err := ReadFile(path)
	switch {
	case err == nil:
		s.Path = path
		if err := s.applyFile(f); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Settings{}, err
	}

	if err := s.applyEnv(env); err != nil {
		return Settings{}, err
	}
	if err := s.applyOverrides(o); err != nil {
		return Settings{}, err
	}
	if err := validation.ValidateBaseURL(s.BaseURL); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ReadFile decodes a config file strictly: unknown keys are errors.
func ReadFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, fs.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return f, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return f, nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, FileName), nil
}

// Path returns the config file Load would read, and whether it was chosen
// explicitly by flag or environment.
func Path(flagPath string) (string, bool) {
	return configPath(flagPath, strings.TrimSpace(os.Getenv(EnvConfig)))
}

func configPath(flagPath, envPath string) (string, bool) {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p, true
	}
	if envPath != "" {
		return envPath, true
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName, false
	}
	p, err := DefaultPath()
	if err != nil {
		return "", false
	}
	return p, false
}

// Init writes a config file holding the defaults. It refuses to overwrite
// an existing file unless force is set.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}
	d := Defaults()
	data, err := yaml.Marshal(File{
		BaseURL: d.BaseURL,
		Timeout: d.Timeout.String(),
		Output:  d.Output,
		Cache: CacheFile{
			Backend: d.Cache.Backend,
			TTL:     d.Cache.TTL.String(),
		},
	})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

// File returns s in config-file form with the redis password masked.
func (s Settings) File() File {
	f := File{
		BaseURL:   s.BaseURL,
		Timeout:   s.Timeout.String(),
		UserAgent: s.UserAgent,
		Output:    s.Output,
		Cache: CacheFile{
			Backend: s.Cache.Backend,
			TTL:     s.Cache.TTL.String(),
			Dir:     s.Cache.Dir,
			Redis: RedisFile{
				Addr: s.Cache.Redis.Addr,
				DB:   s.Cache.Redis.DB,
			},
		},
	}
	if s.Cache.Redis.Password != "" {
		f.Cache.Redis.Password = "********"
	}
	return f
}

func (s *Settings) applyFile(f File) error {
	if f.BaseURL != "" {
		s.BaseURL = f.BaseURL
	}
	if err := setDuration(&s.Timeout, f.Timeout, "timeout"); err != nil {
		return err
	}
	if f.UserAgent != "" {
		s.UserAgent = f.UserAgent
	}
	if f.Output != "" {
		s.Output = f.Output
	}
	if err := setBackend(&s.Cache.Backend, f.Cache.Backend); err != nil {
		return err
	}
	if err := setDuration(&s.Cache.TTL, f.Cache.TTL, "cache.ttl"); err != nil {
		return err
	}
	if f.Cache.Dir != "" {
		s.Cache.Dir = f.Cache.Dir
	}
	if f.Cache.Redis.Addr != "" {
		s.Cache.Redis.Addr = f.Cache.Redis.Addr
	}
	if f.Cache.Redis.Password != "" {
		s.Cache.Redis.Password = f.Cache.Redis.Password
	}
	if f.Cache.Redis.DB != 0 {
		s.Cache.Redis.DB = f.Cache.Redis.DB
	}
	return nil
}

func (s *Settings) applyEnv(env func(string) string) error {
	if v := env(EnvBaseURL); v != "" {
		s.BaseURL = v
	}
	if err := setDuration(&s.Timeout, env(EnvTimeout), EnvTimeout); err != nil {
		return err
	}
	if v := env(EnvUserAgent); v != "" {
		s.UserAgent = v
	}
	if v := env(EnvOutput); v != "" {
		s.Output = v
	}
	if err := setBackend(&s.Cache.Backend, env(EnvCache)); err != nil {
		return fmt.Errorf("%s: %w", EnvCache, err)
	}
	if err := setDuration(&s.Cache.TTL, env(EnvCacheTTL), EnvCacheTTL); err != nil {
		return err
	}
	if v := env(EnvCacheDir); v != "" {
		s.Cache.Dir = v
	}
	if v := env(EnvRedisAddr); v != "" {
		s.Cache.Redis.Addr = v
	}
	if v := env(EnvRedisPassword); v != "" {
		s.Cache.Redis.Password = v
	}
	if v := env(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			return fmt.Errorf("%s must be a non-negative integer", EnvRedisDB)
		}
		s.Cache.Redis.DB = db
	}
	return nil
}

func (s *Settings) applyOverrides(o Overrides) error {
	if v := strings.TrimSpace(o.BaseURL); v != "" {
		s.BaseURL = v
	}
	if o.Timeout != nil {
		if *o.Timeout < 0 {
			return fmt.Errorf("--timeout must not be negative")
		}
		s.Timeout = *o.Timeout
	}
	if err := setBackend(&s.Cache.Backend, o.Cache); err != nil {
		return fmt.Errorf("--cache: %w", err)
	}
	if v := strings.TrimSpace(o.Output); v != "" {
		s.Output = v
	}
	return nil
}

func setDuration(dst *time.Duration, raw, name string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if d < 0 {
		return fmt.Errorf("invalid %s %q: must not be negative", name, raw)
	}
	*dst = d
	return nil
}

func setBackend(dst *string, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	b, err := cache.ParseBackend(raw)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// readDotEnv reads path, or ./.env when path is empty. A missing default
// file yields an empty map.
func readDotEnv(path string) (map[string]string, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	return vars, nil
}

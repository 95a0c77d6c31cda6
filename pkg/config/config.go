// Package config loads cogbalance settings.
//
// Settings are layered: the embedded defaults.toml first, then the user's
// TOML file, then COGBALANCE_* environment variables. The result is
// validated once and handed to the CLI, the server and the session backends.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the valid session backends.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config is the full application configuration.
type Config struct {
	Calc    CalcConfig       `toml:"calc"`
	Display DisplayConfig    `toml:"display"`
	Overlay overlay.Geometry `toml:"overlay"`
	Server  ServerConfig     `toml:"server"`
	Session SessionConfig    `toml:"session"`
	Redis   RedisConfig      `toml:"redis"`
	Mongo   MongoConfig      `toml:"mongo"`
}

type CalcConfig struct {
	Scale        float64 `toml:"scale"`
	CameraFactor float64 `toml:"camera_factor"`
	MinWeight    float64 `toml:"min_weight"`
}

type DisplayConfig struct {
	Precision int    `toml:"precision"`
	Unit      string `toml:"unit"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

type SessionConfig struct {
	Backend string   `toml:"backend"`
	TTL     Duration `toml:"ttl"`
	Dir     string   `toml:"dir"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if _, err := toml.Decode(string(defaultsTOML), cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration. An empty path uses only the defaults and the
// environment; a non-empty path must exist. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/cogbalance/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cogbalance", "config.toml"), nil
}

// ResolvePath returns flagPath when set, otherwise the default path if a file
// exists there, otherwise "".
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	p, err := DefaultPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Validate checks every section.
func (c *Config) Validate() error {
	if !finite(c.Calc.Scale) || c.Calc.Scale <= 0 {
		return fmt.Errorf("calc.scale must be a positive number, got %g", c.Calc.Scale)
	}
	if !finite(c.Calc.CameraFactor) {
		return fmt.Errorf("calc.camera_factor must be finite")
	}
	if !finite(c.Calc.MinWeight) || c.Calc.MinWeight < 0 {
		return fmt.Errorf("calc.min_weight must be >= 0, got %g", c.Calc.MinWeight)
	}
	if c.Display.Precision < 0 || c.Display.Precision > 10 {
		return fmt.Errorf("display.precision must be between 0 and 10, got %d", c.Display.Precision)
	}
	if err := c.Overlay.Validate(); err != nil {
		return err
	}
	if !slices.Contains(Backends, c.Session.Backend) {
		return fmt.Errorf("session.backend %q is not one of %v", c.Session.Backend, Backends)
	}
	if c.Session.TTL.Duration <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0")
	}
	return nil
}

// CalcOptions returns the calculator options for this configuration.
func (c *Config) CalcOptions() []cog.Option {
	return []cog.Option{cog.WithScale(c.Calc.Scale), cog.WithCameraFactor(c.Calc.CameraFactor)}
}

// SessionDir returns the file backend directory, defaulting to the user
// cache directory.
func (c *Config) SessionDir() (string, error) {
	if c.Session.Dir != "" {
		return c.Session.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cogbalance", "sessions"), nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "COGBALANCE_"

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func floatVar(name string, field func(*Config) *float64) envVar {
	return envVar{name, func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}}
}

func floatPtrVar(name string, field func(*Config) **float64) envVar {
	return envVar{name, func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = &f
		return nil
	}}
}

func intVar(name string, field func(*Config) *int) envVar {
	return envVar{name, func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}}
}

func stringVar(name string, field func(*Config) *string) envVar {
	return envVar{name, func(c *Config, v string) error {
		*field(c) = v
		return nil
	}}
}

func durationVar(name string, field func(*Config) *Duration) envVar {
	return envVar{name, func(c *Config, v string) error {
		return field(c).UnmarshalText([]byte(v))
	}}
}

var envVars = []envVar{
	floatVar("CALC_SCALE", func(c *Config) *float64 { return &c.Calc.Scale }),
	floatVar("CALC_CAMERA_FACTOR", func(c *Config) *float64 { return &c.Calc.CameraFactor }),
	floatVar("CALC_MIN_WEIGHT", func(c *Config) *float64 { return &c.Calc.MinWeight }),
	intVar("DISPLAY_PRECISION", func(c *Config) *int { return &c.Display.Precision }),
	stringVar("DISPLAY_UNIT", func(c *Config) *string { return &c.Display.Unit }),
	floatPtrVar("OVERLAY_BASE_X", func(c *Config) **float64 { return &c.Overlay.BaseX }),
	stringVar("SERVER_ADDR", func(c *Config) *string { return &c.Server.Addr }),
	stringVar("SESSION_BACKEND", func(c *Config) *string { return &c.Session.Backend }),
	durationVar("SESSION_TTL", func(c *Config) *Duration { return &c.Session.TTL }),
	stringVar("SESSION_DIR", func(c *Config) *string { return &c.Session.Dir }),
	stringVar("REDIS_ADDR", func(c *Config) *string { return &c.Redis.Addr }),
	stringVar("REDIS_PASSWORD", func(c *Config) *string { return &c.Redis.Password }),
	intVar("REDIS_DB", func(c *Config) *int { return &c.Redis.DB }),
	stringVar("MONGO_URI", func(c *Config) *string { return &c.Mongo.URI }),
	stringVar("MONGO_DATABASE", func(c *Config) *string { return &c.Mongo.Database }),
	stringVar("MONGO_COLLECTION", func(c *Config) *string { return &c.Mongo.Collection }),
}

// EnvNames lists every recognized environment variable.
func EnvNames() []string {
	names := make([]string, len(envVars))
	for i, ev := range envVars {
		names[i] = EnvPrefix + ev.name
	}
	return names
}

// ApplyEnv overrides fields from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.set(c, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, ev.name, err)
		}
	}
	return nil
}

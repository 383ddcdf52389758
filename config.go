// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// config.go — client configuration, defaults and validation, plus loading
// from YAML or TOML files.

package typedis

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AndrewDonelson/typedis/internal/clock"
	"github.com/AndrewDonelson/typedis/internal/codec"
	"github.com/AndrewDonelson/typedis/internal/metrics"
	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

// MetricsRecorder receives command latency, error and transaction metrics.
type MetricsRecorder = metrics.Recorder

// Clock supplies the time used for latency measurements.
type Clock = clock.Clock

// NewPrometheusMetrics returns a MetricsRecorder registering its collectors
// with reg, or with the default registerer when reg is nil.
func NewPrometheusMetrics(reg prometheus.Registerer) (MetricsRecorder, error) {
	p, err := metrics.NewPrometheus(reg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Config contains all Client configuration.
type Config struct {
	// Connection
	Addr     string
	Username string
	Password string
	DB       int
	// Protocol is the RESP version, 2 or 3. Zero means 3.
	Protocol int

	// Pool
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// CommandTimeout bounds every call when positive. Zero leaves
	// cancellation to the caller's context.
	CommandTimeout time.Duration

	// Fallback names the serializer used for types without a codec:
	// "" (none), "json" or "msgpack".
	Fallback string

	// Encryption key (must be 32 bytes for AES-256-GCM; nil = disabled).
	// Used by RegisterEncrypted.
	EncryptionKey []byte

	// Optional overrideable components
	Logger  Logger
	Metrics MetricsRecorder
	Clock   Clock
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Protocol == 0 {
		c.Protocol = 3
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
}

func (c *Config) validate() error {
	if c.Protocol != 2 && c.Protocol != 3 {
		return fmt.Errorf("%w: protocol must be 2 or 3, got %d", ErrInvalidConfig, c.Protocol)
	}
	if c.DB < 0 {
		return fmt.Errorf("%w: negative db %d", ErrInvalidConfig, c.DB)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: negative pool size %d", ErrInvalidConfig, c.PoolSize)
	}
	for name, d := range map[string]time.Duration{
		"dial timeout":    c.DialTimeout,
		"read timeout":    c.ReadTimeout,
		"write timeout":   c.WriteTimeout,
		"command timeout": c.CommandTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: negative %s %s", ErrInvalidConfig, name, d)
		}
	}
	if _, ok := codec.SerializerByName(c.Fallback); !ok {
		return fmt.Errorf("%w: unknown fallback serializer %q", ErrInvalidConfig, c.Fallback)
	}
	if len(c.EncryptionKey) > 0 && len(c.EncryptionKey) != 32 {
		return fmt.Errorf("%w: encryption key must be 32 bytes, got %d", ErrInvalidConfig, len(c.EncryptionKey))
	}
	return nil
}

// FileConfig is the on-disk form of Config. Durations are Go duration
// strings; the encryption key is hex encoded.
type FileConfig struct {
	Addr           string `yaml:"addr" toml:"addr"`
	Username       string `yaml:"username" toml:"username"`
	Password       string `yaml:"password" toml:"password"`
	DB             int    `yaml:"db" toml:"db"`
	Protocol       int    `yaml:"protocol" toml:"protocol"`
	PoolSize       int    `yaml:"pool_size" toml:"pool_size"`
	DialTimeout    string `yaml:"dial_timeout" toml:"dial_timeout"`
	ReadTimeout    string `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout   string `yaml:"write_timeout" toml:"write_timeout"`
	CommandTimeout string `yaml:"command_timeout" toml:"command_timeout"`
	Fallback       string `yaml:"fallback" toml:"fallback"`
	EncryptionKey  string `yaml:"encryption_key" toml:"encryption_key"`
}

// LoadConfig reads a .yaml/.yml or .toml file into a Config. Components
// such as Logger and Metrics are left unset.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("typedis: read config: %w", err)
	}
	var raw FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return Config{}, fmt.Errorf("typedis: parse config %s: %w", path, err)
	}
	return raw.Config()
}

// Config converts the file form into a Config.
func (f FileConfig) Config() (Config, error) {
	cfg := Config{
		Addr:     strings.TrimSpace(f.Addr),
		Username: f.Username,
		Password: f.Password,
		DB:       f.DB,
		Protocol: f.Protocol,
		PoolSize: f.PoolSize,
		Fallback: strings.TrimSpace(f.Fallback),
	}
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"dial_timeout", f.DialTimeout, &cfg.DialTimeout},
		{"read_timeout", f.ReadTimeout, &cfg.ReadTimeout},
		{"write_timeout", f.WriteTimeout, &cfg.WriteTimeout},
		{"command_timeout", f.CommandTimeout, &cfg.CommandTimeout},
	} {
		s := strings.TrimSpace(d.raw)
		if s == "" {
			continue
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, d.name, err)
		}
		*d.dst = v
	}
	if k := strings.TrimSpace(f.EncryptionKey); k != "" {
		key, err := hex.DecodeString(k)
		if err != nil {
			return Config{}, fmt.Errorf("%w: encryption_key: %w", ErrInvalidConfig, err)
		}
		cfg.EncryptionKey = key
	}
	return cfg, nil
}

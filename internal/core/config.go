package core

import (
	"path/filepath"
	"strings"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
)

const (
	DefaultAddr         = ":6750"
	DefaultLogLevel     = "info"
	DefaultBrokerName   = "todo"
	DefaultRedisChannel = "todos"
)

type Log struct {
	Level string `config:"level"`
}

// Broker configures the pulsar relay. An empty URL disables it.
type Broker struct {
	URL   string `config:"url"`
	Topic string `config:"topic"`
	Name  string `config:"name"`
}

// Redis configures the redis relay. An empty Addr disables it.
type Redis struct {
	Addr    string `config:"addr"`
	Channel string `config:"channel"`
}

type Config struct {
	Addr    string `config:"addr"`
	JwksURL string `config:"jwks_url"`
	Log     Log    `config:"log"`
	Broker  Broker `config:"broker"`
	Redis   Redis  `config:"redis"`
}

// NewConfig loads path and, when present, the sibling <name>.local<ext> overlay.
// Values may reference environment variables as ${VAR|default}.
func NewConfig(path string) (*Config, error) {
	var appConfig Config

	c := config.NewWithOptions("todo", func(opt *config.Options) {
		opt.ParseEnv = true
		opt.TagName = "config"
		opt.DecoderConfig.TagName = "config"
	})

	c.AddDriver(yaml.Driver)

	if err := c.LoadFiles(path); err != nil {
		return nil, err
	}

	if err := c.LoadExists(localPath(path)); err != nil {
		return nil, err
	}

	if err := c.BindStruct("", &appConfig); err != nil {
		return nil, err
	}

	appConfig.applyDefaults()

	return &appConfig, nil
}

func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.Broker.Name == "" {
		c.Broker.Name = DefaultBrokerName
	}

	if c.Redis.Channel == "" {
		c.Redis.Channel = DefaultRedisChannel
	}
}

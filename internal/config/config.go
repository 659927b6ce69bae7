package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type Config struct {
	Env string `yaml:"env"`
	// Secret is both the owner login password and the API bearer token.
	Secret string `yaml:"secret"`
	// Domain is the public host used to compose short URLs.
	Domain string `yaml:"domain"`
	// Homepage is where GET / redirects.
	Homepage        string        `yaml:"homepage"`
	MetadataTimeout time.Duration `yaml:"metadata_timeout"`
	HTTPServer      `yaml:"http_server"`
	Redis           `yaml:"redis"`
	RateLimit       `yaml:"rate_limit"`
}

// ShortURL composes the public short URL for a slug.
func (c *Config) ShortURL(slug string) string {
	return fmt.Sprintf("https://%s/%s", c.Domain, slug)
}

type HTTPServer struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CertFile     string        `yaml:"cert_file"`
	KeyFile      string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:         8080,
	ReadTimeout:  5 * time.Second,
	WriteTimeout: 10 * time.Second,
	IdleTimeout:  time.Minute,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

var defaultRedis = Redis{
	Addr: "localhost:6379",
}

type Rule struct {
	Limit  int64         `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type RateLimit struct {
	Redirect Rule `yaml:"redirect"`
	Admin    Rule `yaml:"admin"`
}

var defaultRateLimit = RateLimit{
	Redirect: Rule{Limit: 60, Window: time.Minute},
	Admin:    Rule{Limit: 50, Window: 15 * time.Minute},
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if cfg.Secret == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("secret must be set"))
	}
	if cfg.Domain == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("domain must be set"))
	}

	if cfg.Homepage == "" {
		cfg.Homepage = "https://" + cfg.Domain + "/admin"
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.MetadataTimeout = 5 * time.Second
	cfg.HTTPServer = defaultHTTPServer
	cfg.Redis = defaultRedis
	cfg.RateLimit = defaultRateLimit
}

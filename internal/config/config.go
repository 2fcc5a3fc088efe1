package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

type Config struct {
	Env        string `yaml:"env" validate:"oneof=dev stage prod"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Redis      `yaml:"redis"`
	Resolver   `yaml:"resolver"`
	Extractor  `yaml:"extractor"`
}

type HTTPServer struct {
	Port           int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user" validate:"required"`
	Password        string        `yaml:"password" validate:"required"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db" validate:"required"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

// Redis configures the optional cold-path metadata cache. Leaving addr
// empty disables caching entirely.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r *Redis) Enabled() bool {
	return r.Addr != ""
}

// Resolver configures the redirect hot path.
type Resolver struct {
	// RedirectMaxAge is the Cache-Control max-age for plain redirects,
	// in seconds. Short enough that deactivation takes effect quickly.
	RedirectMaxAge int `yaml:"redirect_max_age"`
	// FastTableMaxAge and FastStoreMaxAge are the max-ages for the
	// static-table variant: table hits and store hits respectively.
	FastTableMaxAge int `yaml:"fast_table_max_age"`
	FastStoreMaxAge int `yaml:"fast_store_max_age"`
	// TrackerQueueSize bounds the click tracker queue.
	TrackerQueueSize int `yaml:"tracker_queue_size"`
	// StaticRoutes is the fixed slug-to-destination table consulted by the
	// fast variant before the store. Optional and usually empty.
	StaticRoutes map[string]string `yaml:"static_routes"`
}

var defaultResolver = Resolver{
	RedirectMaxAge:   60,
	FastTableMaxAge:  3600,
	FastStoreMaxAge:  300,
	TrackerQueueSize: 256,
}

// Extractor configures the cold-path metadata fetcher.
type Extractor struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

var defaultExtractor = Extractor{
	Timeout:   5 * time.Second,
	UserAgent: "shortlink-preview/1.0",
	CacheTTL:  15 * time.Minute,
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

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Resolver = defaultResolver
	cfg.Extractor = defaultExtractor
}

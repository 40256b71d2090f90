package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackingMemory = "memory"
	BackingRest   = "rest"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8000"`
}

// Backing selects which implementation of the data/order contract the client
// talks to: the in-memory fixture store or the real REST API. Exactly one is
// used for the lifetime of the process; the two are never mixed.
type Backing struct {
	Kind    string        `yaml:"kind"     env:"BACKING" env-default:"memory"`
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8000/api/v1"`
	Timeout time.Duration `yaml:"timeout"  env:"API_TIMEOUT" env-default:"10s"`
}

type Cart struct {
	TTL           time.Duration `yaml:"ttl"            env:"CART_TTL" env-default:"15m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"CART_SWEEP_INTERVAL" env-default:"30s"`
}

// State is the local persistence area for client-side state (cart, favorites,
// mock dataset). Each concern lives under its own namespace key.
type State struct {
	Dir string `yaml:"dir" env:"STATE_DIR" env-default:".carbonmarket"`
}

type RedisConnect struct {
	Addr     string        `yaml:"REDIS_ADDR" env:"REDIS_ADDR" env-default:""`
	Password string        `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"REDIS_TTL" env:"REDIS_TTL" env-default:"60s"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT" env-default:""`
}

// Mock holds knobs that only apply when serving the mock API.
type Mock struct {
	Persist        bool          `yaml:"persist"         env:"MOCK_PERSIST" env-default:"false"`
	AutoSettle     bool          `yaml:"auto_settle"     env:"MOCK_AUTO_SETTLE" env-default:"false"`
	SettleInterval time.Duration `yaml:"settle_interval" env:"MOCK_SETTLE_INTERVAL" env-default:"45s"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"development"`
	HTTPServer   `yaml:"http_server"`
	Backing      Backing      `yaml:"backing"`
	Cart         Cart         `yaml:"cart"`
	State        State        `yaml:"state"`
	RedisConnect RedisConnect `yaml:"redis"`
	Telemetry    Telemetry    `yaml:"telemetry"`
	Mock         Mock         `yaml:"mock"`
}

// MustLoad reads configuration from the YAML file named by CONFIG_PATH or the
// -config flag when either is set, with environment variables taking over
// otherwise. It exits the process on malformed input.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flagPath := flag.String("config", "", "path to the config file")
		flag.Parse()
		configPath = *flagPath
	}

	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("config file does not exist: %s", configPath)
		}

		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("can not read config file: %s", err.Error())
		}

		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("can not read config from environment: %s", err.Error())
	}

	return &cfg
}

func (r *RedisConnect) Enabled() bool {
	return r.Addr != ""
}

func (r *RedisConnect) GetDSN() string {
	return "redis://" + r.Addr + "/"
}

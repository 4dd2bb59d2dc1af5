package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env"
)

type config struct {
	Production        bool          `env:"PRODUCTION" envDefault:"false"`
	Port              string        `env:"PORT" envDefault:"80"`
	PostgresUrl       string        `env:"POSTGRES_URL,required"`
	RedisUrl          string        `env:"REDIS_URL" envDefault:"redis:6379"`
	Secret            string        `env:"SECRET,required"`
	ParentTokenTTL    time.Duration `env:"PARENT_TOKEN_TTL" envDefault:"15m"`
	DeviceTokenLength int           `env:"DEVICE_TOKEN_LENGTH" envDefault:"32"`
	DeviceCacheTTL    time.Duration `env:"DEVICE_CACHE_TTL" envDefault:"24h"`
	JoinCodeLength    int           `env:"JOIN_CODE_LENGTH" envDefault:"8"`
	HatchThreshold    int           `env:"HATCH_THRESHOLD" envDefault:"100"`
}

var (
	conf     config
	loadOnce sync.Once
)

// load parses the environment on first access instead of in init, so
// packages that merely link this one (service tests backed by fakes) do not
// need the required variables set.
func load() {
	loadOnce.Do(func() {
		if err := env.Parse(&conf); err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
}

func Production() bool {
	load()
	return conf.Production
}

func Port() string {
	load()
	return conf.Port
}

func PostgresURL() string {
	load()
	return conf.PostgresUrl
}

func RedisURL() string {
	load()
	return conf.RedisUrl
}

func Secret() string {
	load()
	return conf.Secret
}

func ParentTokenTTL() time.Duration {
	load()
	return conf.ParentTokenTTL
}

func DeviceTokenLength() int {
	load()
	return conf.DeviceTokenLength
}

func DeviceCacheTTL() time.Duration {
	load()
	return conf.DeviceCacheTTL
}

func JoinCodeLength() int {
	load()
	return conf.JoinCodeLength
}

func HatchThreshold() int {
	load()
	return conf.HatchThreshold
}

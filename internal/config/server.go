package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Games are read from CatalogDir unless DatabaseDSN is set.
	CatalogDir  string `env:"CATALOG_DIR" envDefault:"games"`
	DatabaseDSN string `env:"DATABASE_DSN"`

	SendAssets     bool     `env:"SEND_ASSETS" envDefault:"false"`
	MaxPlayers     int      `env:"MAX_PLAYERS" envDefault:"8"`
	StackDistance  float64  `env:"STACK_DISTANCE" envDefault:"20"`
	OriginPatterns []string `env:"ORIGIN_PATTERNS" envSeparator:","`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

package main

import (
	"pktscope-go/pkg/appdir"
	"pktscope-go/pkg/arena"

	"github.com/spf13/viper"
)

type Config struct {
	ChunkSize     int    `mapstructure:"chunk_size"` // Use mapstructure for Viper
	MaxInfoLen    int    `mapstructure:"max_info_len"`
	StorePath     string `mapstructure:"store_path"`
	APIListenAddr string `mapstructure:"api_listen_address"`
	LogLevel      string `mapstructure:"log_level"`
	StoreRaw      bool   `mapstructure:"store_raw"`
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize:     arena.DefaultChunkSize,
		MaxInfoLen:    0,  // 0 means print the full info column
		APIListenAddr: "", // empty means the API is not served
		LogLevel:      "info",
		StoreRaw:      true,
	}
}

// LoadConfig loads configuration from file and environment, in that
// order of precedence. Command flags overlay the result in each action.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("pktscope") // name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // look for config in the working directory
	viper.AddConfigPath("/etc/pktscope/")
	viper.AddConfigPath(appdir.AppDir())
	viper.SetEnvPrefix("PKTSCOPE") // will be uppercased automatically, PKTSCOPE_...
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; defaults and environment apply
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Handle defaults that Viper can't.
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = arena.DefaultChunkSize
	}
	return cfg, nil
}

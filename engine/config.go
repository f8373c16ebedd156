package engine

import (
	"fmt"

	"github.com/spf13/viper"
)

// SymbolConfig declares the fixed-point scale enforced on every order
// placed against one symbol: prices and quantities with more fractional
// digits than the declared scale are a scale violation, not a rounding.
type SymbolConfig struct {
	PriceScale int32 `mapstructure:"price_scale"`
	QtyScale   int32 `mapstructure:"qty_scale"`
}

// Config is the engine's bootstrap configuration.
type Config struct {
	RecentTradesCap int                     `mapstructure:"recent_trades_cap"`
	DefaultDepth    int                     `mapstructure:"default_depth"`
	Symbols         map[string]SymbolConfig `mapstructure:"symbols"`
}

// DefaultConfig returns sane defaults for standing the engine up with no
// config file: a 1000-trade tail and a 20-level default snapshot depth,
// with no symbols registered.
func DefaultConfig() Config {
	return Config{
		RecentTradesCap: 1000,
		DefaultDepth:    20,
		Symbols:         map[string]SymbolConfig{},
	}
}

// LoadConfig reads engine configuration from path (yaml/json/toml, anything
// viper supports) and layers it over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("recent_trades_cap", cfg.RecentTradesCap)
	v.SetDefault("default_depth", cfg.DefaultDepth)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("engine: read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("engine: parse config %s: %w", path, err)
	}
	return cfg, nil
}

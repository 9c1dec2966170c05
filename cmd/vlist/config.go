package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/kungfusheep/windowing"
)

// config is the optional vlist.toml file.
type config struct {
	Items    int    `toml:"items"`
	Seed     uint64 `toml:"seed"`
	Overscan int    `toml:"overscan"`
	Estimate int    `toml:"estimate"`
	Strategy string `toml:"strategy"`
	Align    string `toml:"align"`
	Border   bool   `toml:"border"`
	Wheel    int    `toml:"wheel"`
}

func defaultConfig() config {
	return config{
		Items:    100_000,
		Seed:     1,
		Overscan: 2,
		Estimate: 1,
		Align:    "smart",
		Border:   true,
		Wheel:    3,
	}
}

// loadConfig decodes path over the defaults. An empty path keeps them.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.Items < 0 {
		return fmt.Errorf("items %d is negative", c.Items)
	}
	if c.Estimate <= 0 {
		return fmt.Errorf("estimate %d must be positive", c.Estimate)
	}
	if _, err := c.strategy(); err != nil {
		return err
	}
	_, err := c.align()
	return err
}

func (c config) strategy() (windowing.Strategy, error) { return windowing.ParseStrategy(c.Strategy) }

func (c config) align() (windowing.Align, error) { return windowing.ParseAlign(c.Align) }

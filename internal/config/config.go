package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledstrip/internal/led"
	"github.com/coreman2200/ledstrip/strip"
)

type SPI struct {
	Port    string `yaml:"port"`     // periph port name for driver "nrz", "" = first
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0 for driver "spidev"
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
	ResetUs int    `yaml:"reset_us"` // e.g. 300
}

type Preview struct {
	Addr string `yaml:"addr"` // e.g. :8080
}

type Config struct {
	Driver     string `yaml:"driver"` // "nrz" | "spidev" | "console" | "preview" | "sim"
	Pixels     int    `yaml:"pixels"`
	Model      string `yaml:"model"` // "rgb" | "rgbw" (also "GRB" | "GRBW")
	ColorOrder string `yaml:"color_order"`
	FPS        int    `yaml:"fps"`
	Effect     string `yaml:"effect"`
	Color      string `yaml:"color"`
	LogLevel   string `yaml:"log_level"`

	SPI     SPI     `yaml:"spi,omitempty"`
	Preview Preview `yaml:"preview,omitempty"`
}

var drivers = map[string]bool{"nrz": true, "spidev": true, "console": true, "preview": true, "sim": true}

// Default is a 30 pixel WS2812 strip on the console.
func Default() *Config {
	return &Config{
		Driver:     "console",
		Pixels:     30,
		Model:      "rgb",
		ColorOrder: "GRB",
		FPS:        30,
		Effect:     "comet",
		Color:      "#FF6600",
		LogLevel:   "info",
		SPI: SPI{
			Dev:     "/dev/spidev0.0",
			SpeedHz: 2400000,
			ResetUs: 300,
		},
		Preview: Preview{Addr: ":8080"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks every field a strip or engine is built from.
func (c *Config) Validate() error {
	if !drivers[c.Driver] {
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.Pixels <= 0 {
		return fmt.Errorf("pixels must be positive, got %d", c.Pixels)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	m, err := c.StripModel()
	if err != nil {
		return err
	}
	if _, err := led.ParseOrder(c.ColorOrder); err != nil {
		return err
	}
	col, err := strip.ParseColor(c.Color)
	if err != nil {
		return err
	}
	if col.W != 0 && m != strip.RGBW {
		return fmt.Errorf("color %s has a white channel but model is %s", c.Color, m)
	}
	return nil
}

func (c *Config) StripModel() (strip.Model, error) {
	return strip.ParseModel(c.Model)
}

package treeglow

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the configuration for the treeglow daemon. It only binds each
// strip to its output device; the animations themselves are fixed.
type Config struct {
	// Tree is the output of the main strip, which plays the tree animations.
	Tree StripConfig `toml:"tree"`
	// Sky is the output of the second strip, which plays the starfield.
	Sky StripConfig `toml:"sky"`
}

// Driver is the kind of output device a strip is attached to.
type Driver string

const (
	// SerialDriver sends frames to a controller board over a serial port
	// using the ledserial protocol.
	SerialDriver Driver = "serial"
	// SPIDriver drives the strip directly from a SPI bus.
	SPIDriver Driver = "spi"
	// PreviewDriver prints frames to the terminal.
	PreviewDriver Driver = "preview"
)

// StripConfig is the configuration for one strip's output device.
type StripConfig struct {
	Driver Driver `toml:"driver"`
	// Device is the serial device path (e.g. /dev/ttyACM0) or the SPI port
	// name (e.g. /dev/spidev0.0, empty for the first port).
	Device string `toml:"device"`
	// Baud is the baud rate of the serial connection.
	Baud int `toml:"baud"`
	// Settle is how long to wait after opening the serial port before
	// talking to the controller. Many boards reset when the port is opened.
	Settle TOMLDuration `toml:"settle"`
	// FreqHz is the SPI clock for the SPI driver. Zero selects the default
	// 2.5MHz, which is also the only clock the NRZ encoder supports.
	FreqHz int `toml:"freq_hz"`
}

const (
	defaultBaud   = 115200
	defaultSettle = TOMLDuration(2 * time.Second)
)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Tree.validate(); err != nil {
		return errors.Wrap(err, "tree")
	}
	if err := c.Sky.validate(); err != nil {
		return errors.Wrap(err, "sky")
	}
	if c.Tree.Driver != PreviewDriver && c.Tree.Driver == c.Sky.Driver && c.Tree.Device == c.Sky.Device {
		return fmt.Errorf("tree and sky cannot share device %q", c.Tree.Device)
	}
	return nil
}

func (s *StripConfig) validate() error {
	switch s.Driver {
	case SerialDriver:
		if s.Device == "" {
			return errors.New("serial driver needs a device")
		}
		if s.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", s.Baud)
		}
		if s.Settle < 0 {
			return fmt.Errorf("invalid settle duration %s", time.Duration(s.Settle))
		}
	case SPIDriver:
		if s.FreqHz < 0 {
			return fmt.Errorf("invalid SPI frequency %d", s.FreqHz)
		}
	case PreviewDriver:
	case "":
		return errors.New("no driver configured")
	default:
		return fmt.Errorf("unknown driver %q", s.Driver)
	}
	return nil
}

func (s *StripConfig) setDefaults() {
	if s.Driver != SerialDriver {
		return
	}
	if s.Baud == 0 {
		s.Baud = defaultBaud
	}
	if s.Settle == 0 {
		s.Settle = defaultSettle
	}
}

// UsePreview switches both strips to the preview driver.
func (c *Config) UsePreview() {
	c.Tree = StripConfig{Driver: PreviewDriver}
	c.Sky = StripConfig{Driver: PreviewDriver}
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader and fills in defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	config.Tree.setDefaults()
	config.Sky.setDefaults()
	return &config, nil
}

package sink

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"libdb.so/treeglow/internal/led"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// DefaultSPIFreq is the SPI clock that nrzled needs to produce the 800kHz
// WS2812B bit rate. It is the only rate nrzled accepts.
const DefaultSPIFreq = 2500 * physic.KiloHertz

// nrzWriter is the part of *nrzled.Dev used by SPI.
type nrzWriter interface {
	io.Writer
	Halt() error
}

// SPI drives a strip directly from a SPI bus, e.g. on a Raspberry Pi, by
// encoding the NRZ protocol into SPI bytes.
type SPI struct {
	dev     nrzWriter
	port    spi.PortCloser
	numLEDs int
}

// OpenSPI opens the named SPI port and prepares a strip of numLEDs RGB LEDs.
// An empty port name selects the first available port.
func OpenSPI(port string, numLEDs int, freq physic.Frequency) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize host drivers")
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SPI port")
	}

	s, err := NewSPI(p, numLEDs, freq)
	if err != nil {
		p.Close()
		return nil, err
	}
	return s, nil
}

// NewSPI creates a SPI sink over an already opened port. A zero freq selects
// DefaultSPIFreq. The port is closed by Close.
func NewSPI(p spi.PortCloser, numLEDs int, freq physic.Frequency) (*SPI, error) {
	if freq == 0 {
		freq = DefaultSPIFreq
	}

	dev, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: numLEDs,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create NRZ LED device")
	}

	return &SPI{dev: dev, port: p, numLEDs: numLEDs}, nil
}

// Transmit implements anim.Sink. The SPI transfer is synchronous.
func (s *SPI) Transmit(ctx context.Context, leds led.LEDs) error {
	if len(leds) != s.numLEDs {
		return errors.Errorf("frame has %d LEDs, strip has %d", len(leds), s.numLEDs)
	}
	if _, err := leds.WriteTo(s.dev); err != nil {
		return errors.Wrap(err, "failed to write pixels")
	}
	return nil
}

// Close turns the strip off and releases the port.
func (s *SPI) Close() error {
	haltErr := s.dev.Halt()
	if s.port != nil {
		if err := s.port.Close(); err != nil {
			return errors.Wrap(err, "failed to close SPI port")
		}
	}
	return errors.Wrap(haltErr, "failed to halt strip")
}

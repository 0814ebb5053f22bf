// Package treeglow implements the treeglow daemon, which animates a tree strip
// and a sky strip.
package treeglow

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/treeglow/internal/anim"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/internal/sink"
	"periph.io/x/conn/v3/physic"
)

// blankTimeout bounds the final blank frame sent on shutdown.
const blankTimeout = time.Second

// Output is an output device for one strip.
type Output interface {
	anim.Sink
	io.Closer
}

// Daemon is the main treeglow daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
	clock  anim.Clock
	stdout io.Writer
}

// NewDaemon creates a new treeglow daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
		clock:  anim.SystemClock(),
		stdout: sink.NewSyncWriter(os.Stdout),
	}, nil
}

// Run starts both strips. It blocks until the given context is canceled or
// both strips have failed. A failing strip does not stop the other one.
func (d *Daemon) Run(ctx context.Context) error {
	var errg errgroup.Group

	errg.Go(func() error {
		return d.runStrip(ctx, "tree", d.cfg.Tree, func(ctx context.Context, out Output, logger *slog.Logger) error {
			return anim.RunTree(ctx, out, d.clock, anim.Hooks{
				Enter: func(name string) {
					logger.Debug("animation started", "animation", name)
				},
				Exit: func(name string, frames uint64) {
					logger.Debug("animation finished", "animation", name, "frames", frames)
				},
			})
		})
	})

	errg.Go(func() error {
		return d.runStrip(ctx, "sky", d.cfg.Sky, func(ctx context.Context, out Output, logger *slog.Logger) error {
			return anim.RunSky(ctx, out, d.clock)
		})
	})

	return errg.Wait()
}

type stripFunc func(ctx context.Context, out Output, logger *slog.Logger) error

func (d *Daemon) runStrip(ctx context.Context, name string, cfg StripConfig, run stripFunc) error {
	logger := d.logger.With("strip", name)

	logger.Debug(
		"opening output",
		"driver", cfg.Driver,
		"device", cfg.Device)

	out, err := d.openOutput(ctx, name, cfg, logger)
	if err != nil {
		logger.Error("failed to open output", "error", err)
		return errors.Wrapf(err, "%s strip", name)
	}

	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("failed to close output", "error", err)
		}
	}()

	err = run(ctx, out, logger)
	if ctx.Err() != nil {
		d.blank(out, logger)
		return ctx.Err()
	}

	logger.Error("strip stopped", "error", err)
	return errors.Wrapf(err, "%s strip", name)
}

// blank turns the strip off before the daemon exits.
func (d *Daemon) blank(out Output, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), blankTimeout)
	defer cancel()

	logger.Debug("blanking strip")
	if err := out.Transmit(ctx, led.NewLEDs(anim.NumLEDs)); err != nil {
		logger.Warn("failed to blank strip", "error", err)
	}
}

func (d *Daemon) openOutput(ctx context.Context, name string, cfg StripConfig, logger *slog.Logger) (Output, error) {
	switch cfg.Driver {
	case SerialDriver:
		s, err := sink.OpenSerial(cfg.Device, cfg.Baud, anim.NumLEDs, logger)
		if err != nil {
			return nil, err
		}

		logger.Debug("waiting for the controller to settle", "settle", time.Duration(cfg.Settle))
		select {
		case <-ctx.Done():
			s.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(cfg.Settle)):
		}

		if err := s.Initialize(ctx); err != nil {
			s.Close()
			return nil, errors.Wrap(err, "failed to initialize controller")
		}
		return s, nil

	case SPIDriver:
		s, err := sink.OpenSPI(cfg.Device, anim.NumLEDs, physic.Frequency(cfg.FreqHz)*physic.Hertz)
		if err != nil {
			return nil, err
		}
		return s, nil

	case PreviewDriver:
		return sink.NewPreview(d.stdout, name), nil

	default:
		return nil, errors.Errorf("unknown driver %q", cfg.Driver)
	}
}

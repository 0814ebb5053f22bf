// Package sink contains the output devices that frames are transmitted to.
package sink

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/ledserial"
)

// Serial transmits frames to a strip controller speaking the ledserial
// protocol. Each frame is acknowledged by the controller once it was written
// out to the strip.
type Serial struct {
	port    io.ReadWriteCloser
	numLEDs int
	logger  *slog.Logger

	acks chan ledserial.AckPacket
	// owed counts acks for packets whose send was abandoned. They are
	// drained before waiting for the next ack. Only touched by send.
	owed int

	failed   chan struct{}
	failErr  error
	failOnce sync.Once

	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// OpenSerial opens the serial device at the given baud rate. The controller
// is not initialized until Initialize is called.
func OpenSerial(device string, baud, numLEDs int, logger *slog.Logger) (*Serial, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	return NewSerial(port, numLEDs, logger), nil
}

// NewSerial creates a Serial sink over an already opened port. It starts
// reading packets from the controller right away.
func NewSerial(port io.ReadWriteCloser, numLEDs int, logger *slog.Logger) *Serial {
	s := &Serial{
		port:    port,
		numLEDs: numLEDs,
		logger:  logger,
		acks:    make(chan ledserial.AckPacket, 1),
		failed:  make(chan struct{}),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.readPackets()
	return s
}

// Initialize tells the controller the length of the strip and waits for it
// to acknowledge.
func (s *Serial) Initialize(ctx context.Context) error {
	s.logger.Debug("sending initialize packet", "num_leds", s.numLEDs)
	return s.send(ctx, ledserial.InitializePacket{
		NumLEDs: uint16(s.numLEDs),
	})
}

// Transmit implements anim.Sink.
func (s *Serial) Transmit(ctx context.Context, leds led.LEDs) error {
	if len(leds) != s.numLEDs {
		return errors.Errorf("frame has %d LEDs, controller has %d", len(leds), s.numLEDs)
	}
	return s.send(ctx, ledserial.SetPacket{
		Pix: leds.AsPixels(),
	})
}

// Close closes the port and waits for the reader to stop.
func (s *Serial) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closing)
		err = s.port.Close()
		<-s.done
		s.fail(errors.New("serial sink closed"))
	})
	return err
}

func (s *Serial) send(ctx context.Context, p ledserial.IncomingPacket) error {
	select {
	case <-s.failed:
		return s.failErr
	default:
	}

	for s.owed > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.failed:
			return s.failErr
		case <-s.acks:
			s.owed--
		}
	}

	if err := ledserial.WriteIncomingPacket(s.port, p); err != nil {
		return errors.Wrapf(err, "failed to write %s packet", p.Type())
	}

	select {
	case <-ctx.Done():
		s.owed++
		return ctx.Err()
	case <-s.failed:
		return s.failErr
	case ack := <-s.acks:
		if ack.IncomingPacketType != p.Type() {
			return errors.Errorf("controller acked %s, expected %s", ack.IncomingPacketType, p.Type())
		}
		return nil
	}
}

func (s *Serial) fail(err error) {
	s.failOnce.Do(func() {
		s.failErr = err
		close(s.failed)
	})
}

func (s *Serial) readPackets() {
	defer close(s.done)

	for {
		p, err := ledserial.ReadOutgoingPacket(s.port)
		if err != nil {
			select {
			case <-s.closing:
				return
			default:
				s.fail(errors.Wrap(err, "failed to read packet"))
				return
			}
		}

		s.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		switch p := p.(type) {
		case ledserial.AckPacket:
			select {
			case s.acks <- p:
			case <-s.closing:
				return
			}

		case ledserial.LogPacket:
			s.logger.Info(
				"received log packet from controller",
				"message", p.Message)

		case ledserial.ErrorPacket:
			s.logger.Warn(
				"received error packet from controller",
				"message", p.Message)
			s.fail(errors.Errorf("controller reported error: %s", p.Message))
			return

		case ledserial.PanicPacket:
			s.logger.Error("controller unrecoverably panicked")
			s.fail(errors.New("controller panicked"))
			return
		}
	}
}

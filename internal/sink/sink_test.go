package sink

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/ledserial"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeController answers host packets over one end of a pipe the way the
// controller firmware does.
type fakeController struct {
	conn    net.Conn
	frames  chan []uint8
	numLEDs uint16
	// reply, if set, replaces the ack for SetPackets.
	reply ledserial.OutgoingPacket
}

func (c *fakeController) run() {
	for {
		p, err := ledserial.ReadIncomingPacket(c.conn, ledserial.ReadContext{NumLEDs: c.numLEDs})
		if err != nil {
			return
		}

		switch p := p.(type) {
		case ledserial.InitializePacket:
			c.numLEDs = p.NumLEDs
		case ledserial.SetPacket:
			c.frames <- p.Pix
			if c.reply != nil {
				ledserial.WriteOutgoingPacket(c.conn, c.reply)
				continue
			}
		}

		if err := ledserial.WriteOutgoingPacket(c.conn, ledserial.AckPacket{IncomingPacketType: p.Type()}); err != nil {
			return
		}
	}
}

func newSerialPair(t *testing.T, numLEDs int, reply ledserial.OutgoingPacket) (*Serial, *fakeController) {
	host, dev := net.Pipe()
	ctrl := &fakeController{
		conn:   dev,
		frames: make(chan []uint8, 16),
		reply:  reply,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.run()
	}()

	s := NewSerial(host, numLEDs, discardLogger)
	t.Cleanup(func() {
		s.Close()
		dev.Close()
		<-done
	})

	return s, ctrl
}

func TestSerial(t *testing.T) {
	ctx := context.Background()
	s, ctrl := newSerialPair(t, 3, nil)

	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, uint16(3), ctrl.numLEDs)

	leds := led.LEDs{led.RGB(1, 2, 3), led.RGB(4, 5, 6), led.RGB(7, 8, 9)}
	require.NoError(t, s.Transmit(ctx, leds))
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}, <-ctrl.frames)

	leds.Clear()
	require.NoError(t, s.Transmit(ctx, leds))
	assert.Equal(t, make([]uint8, 9), <-ctrl.frames)

	err := s.Transmit(ctx, led.NewLEDs(2))
	assert.EqualError(t, err, "frame has 2 LEDs, controller has 3")
}

func TestSerialControllerError(t *testing.T) {
	ctx := context.Background()
	s, ctrl := newSerialPair(t, 1, ledserial.ErrorPacket{Message: "strip unplugged"})

	require.NoError(t, s.Initialize(ctx))

	err := s.Transmit(ctx, led.NewLEDs(1))
	assert.EqualError(t, err, "controller reported error: strip unplugged")
	<-ctrl.frames

	err = s.Transmit(ctx, led.NewLEDs(1))
	assert.EqualError(t, err, "controller reported error: strip unplugged", "a failed sink stays failed")
}

func TestSerialContextDone(t *testing.T) {
	host, dev := net.Pipe()
	defer dev.Close()

	// Swallow writes without ever acking.
	go io.Copy(io.Discard, dev)

	s := NewSerial(host, 1, discardLogger)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Transmit(ctx, led.NewLEDs(1)), context.Canceled)
}

func TestSerialLateAck(t *testing.T) {
	host, dev := net.Pipe()

	// The controller reads frames but only acks when told to.
	frames := make(chan ledserial.IncomingPacket, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			p, err := ledserial.ReadIncomingPacket(dev, ledserial.ReadContext{NumLEDs: 1})
			if err != nil {
				return
			}
			frames <- p
		}
	}()

	s := NewSerial(host, 1, discardLogger)
	defer func() {
		s.Close()
		dev.Close()
		<-done
	}()

	ack := func() {
		err := ledserial.WriteOutgoingPacket(dev, ledserial.AckPacket{IncomingPacketType: ledserial.TypeSetPacket})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Transmit(ctx, led.LEDs{led.RGB(1, 1, 1)})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	<-frames

	// The first frame's ack arrives after its Transmit gave up.
	ack()

	result := make(chan error, 1)
	go func() {
		result <- s.Transmit(context.Background(), led.LEDs{led.RGB(2, 2, 2)})
	}()

	assert.Equal(t, ledserial.SetPacket{Pix: []uint8{2, 2, 2}}, <-frames)

	select {
	case err := <-result:
		t.Fatalf("second transmit returned before its ack: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	ack()
	assert.NoError(t, <-result)
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	p := NewPreview(&buf, "sky")

	require.NoError(t, p.Transmit(context.Background(), led.LEDs{led.RGB(25, 0, 0), led.Off}))
	require.NoError(t, p.Close())

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "sky   "), "got %q", line)
	assert.Equal(t, 2, strings.Count(line, "●"))
	assert.Equal(t, 2, strings.Count(line, "\x1b[38;2;"), "expected 24-bit colors, got %q", line)
	assert.Contains(t, line, "\x1b[38;2;0;0;0m●")
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Equal(t, 1, strings.Count(line, "\n"))
}

func TestGain(t *testing.T) {
	assert.Equal(t, uint8(0), gain(0))
	assert.Equal(t, uint8(250), gain(25))
	assert.Equal(t, uint8(255), gain(26))
	assert.Equal(t, uint8(255), gain(255))
}

func repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestSPI(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewSPI(spitest.NewRecordRaw(&buf), 2, 0)
	require.NoError(t, err)

	leds := led.LEDs{led.RGB(0xFF, 0, 0), led.RGB(0, 0, 0x0F)}
	require.NoError(t, s.Transmit(context.Background(), leds))

	// Each channel becomes 4 SPI bytes, sent in GRB order, then a 3 byte
	// latch.
	var want []byte
	want = append(want, repeat(0x88, 4)...)     // G 0x00
	want = append(want, repeat(0xEE, 4)...)     // R 0xFF
	want = append(want, repeat(0x88, 4)...)     // B 0x00
	want = append(want, repeat(0x88, 4)...)     // G 0x00
	want = append(want, repeat(0x88, 4)...)     // R 0x00
	want = append(want, 0x88, 0x88, 0xEE, 0xEE) // B 0x0F
	want = append(want, 0x00, 0x00, 0x00)
	assert.Equal(t, want, buf.Bytes())

	assert.EqualError(t, s.Transmit(context.Background(), led.NewLEDs(3)), "frame has 3 LEDs, strip has 2")

	buf.Reset()
	require.NoError(t, s.Close())
	assert.Equal(t, append(repeat(0x88, 24), 0x00, 0x00, 0x00), buf.Bytes(), "close turns every LED off")
}

func TestSPIUnsupportedFreq(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewSPI(spitest.NewRecordRaw(&buf), 2, 800*physic.KiloHertz)
	assert.ErrorContains(t, err, "failed to create NRZ LED device")
}

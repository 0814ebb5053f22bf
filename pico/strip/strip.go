// Package strip drives a WS2812 strip wired to a GPIO pin of the board.
package strip

import (
	"context"
	"image/color"
	"machine"

	"libdb.so/treeglow/internal/led"
	"tinygo.org/x/drivers/ws2812"
)

// Strip is a WS2812 strip on a single data pin.
type Strip struct {
	dev ws2812.Device
	buf []color.RGBA
}

// New configures pin and returns a strip of numLEDs LEDs on it.
func New(pin machine.Pin, numLEDs int) *Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Strip{
		dev: ws2812.New(pin),
		buf: make([]color.RGBA, numLEDs),
	}
}

// Len returns the number of LEDs on the strip.
func (s *Strip) Len() int {
	return len(s.buf)
}

// Transmit implements anim.Sink. The driver reorders each color to GRB.
func (s *Strip) Transmit(ctx context.Context, leds led.LEDs) error {
	for i := range s.buf {
		if i < len(leds) {
			s.buf[i] = leds[i].RGBA()
		} else {
			s.buf[i] = color.RGBA{}
		}
	}
	return s.dev.WriteColors(s.buf)
}

// WritePixels writes packed RGB triplets, as carried by a ledserial set
// packet.
func (s *Strip) WritePixels(pix []uint8) error {
	for i := range s.buf {
		if 3*i+2 < len(pix) {
			s.buf[i] = color.RGBA{R: pix[3*i], G: pix[3*i+1], B: pix[3*i+2], A: 0xFF}
		} else {
			s.buf[i] = color.RGBA{}
		}
	}
	return s.dev.WriteColors(s.buf)
}

// Fill sets every LED to c.
func (s *Strip) Fill(c led.RGBColor) error {
	for i := range s.buf {
		s.buf[i] = c.RGBA()
	}
	return s.dev.WriteColors(s.buf)
}

// Command ledserial is the controller firmware for a host running treeglow
// with the serial driver. It drives one strip on GPIO16 from the frames it
// receives over USB.
package main

import (
	"fmt"
	"io"
	"machine"

	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/ledserial"
	"libdb.so/treeglow/pico/strip"
)

const stripPin = machine.GPIO16

// readyColor is shown on every LED once the host has initialized the strip.
var readyColor = led.RGB(0, 0, 25)

// Device stores the current state of the controller.
type Device struct {
	serial io.ReadWriter
	pin    machine.Pin
	strip  *strip.Strip
}

func main() {
	d := &Device{
		serial: serialIO{machine.Serial},
		pin:    stripPin,
	}
	d.Run()
}

// Run runs the device loop forever.
func (d *Device) Run() {
	defer func() {
		if recover() != nil {
			d.sendPacket(ledserial.PanicPacket{})
		}
	}()

	for {
		p, err := ledserial.ReadIncomingPacket(d.serial, d.readContext())
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
			continue
		}

		d.sendPacket(ledserial.AckPacket{IncomingPacketType: p.Type()})
	}
}

func (d *Device) readContext() ledserial.ReadContext {
	var ctx ledserial.ReadContext
	if d.strip != nil {
		ctx.NumLEDs = uint16(d.strip.Len())
	}
	return ctx
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.strip = strip.New(d.pin, int(p.NumLEDs))
		d.log(fmt.Sprintf("initialized %d LEDs", p.NumLEDs))
		return d.strip.Fill(readyColor)

	case ledserial.ClearPacket:
		if d.strip == nil {
			return fmt.Errorf("strip not initialized")
		}
		return d.strip.Fill(led.Off)

	case ledserial.SetPacket:
		if d.strip == nil {
			return fmt.Errorf("strip not initialized")
		}
		return d.strip.WritePixels(p.Pix)

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

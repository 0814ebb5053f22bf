// Package led contains the color and pixel buffer types shared by the
// animations and the output devices.
package led

import "image/color"

// RGBColor is a color triple in R, G, B order.
type RGBColor [3]uint8

// Off is the color of an unlit LED.
var Off RGBColor

// RGB creates a new RGBColor.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{r, g, b}
}

// R returns the red channel.
func (c RGBColor) R() uint8 { return c[0] }

// G returns the green channel.
func (c RGBColor) G() uint8 { return c[1] }

// B returns the blue channel.
func (c RGBColor) B() uint8 { return c[2] }

// RGBA converts the color into an opaque color.RGBA.
func (c RGBColor) RGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xFF}
}

// StepToward moves each channel of c at most step units toward the matching
// channel of target. A channel never passes its target.
func (c RGBColor) StepToward(target RGBColor, step uint8) RGBColor {
	for i := range c {
		c[i] = stepChannel(c[i], target[i], step)
	}
	return c
}

func stepChannel(v, target, step uint8) uint8 {
	switch {
	case v < target:
		if target-v <= step {
			return target
		}
		return v + step
	case v > target:
		if v-target <= step {
			return target
		}
		return v - step
	default:
		return v
	}
}

// Scale multiplies each channel by percent/100, rounding down. Percentages
// above 100 are treated as 100.
func (c RGBColor) Scale(percent uint8) RGBColor {
	if percent > 100 {
		percent = 100
	}
	for i := range c {
		c[i] = uint8(uint16(c[i]) * uint16(percent) / 100)
	}
	return c
}

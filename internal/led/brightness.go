package led

// Strips at full intensity are too bright to look at indoors. Every color is
// authored at full scale and dimmed exactly once, when it is constructed.
const (
	brightnessNum = 25
	brightnessDen = 255
)

// Dim maps a full-scale channel value to its output value under the global
// brightness ratio of 25/255.
func Dim(v uint8) uint8 {
	return uint8(uint16(v) * brightnessNum / brightnessDen)
}

// DimRGB creates a color from full-scale channel values. The result must not
// be dimmed again.
func DimRGB(r, g, b uint8) RGBColor {
	return RGBColor{Dim(r), Dim(g), Dim(b)}
}

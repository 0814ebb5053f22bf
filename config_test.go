package treeglow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
[tree]
driver = "serial"
device = "/dev/ttyACM0"
settle = "500ms"

[sky]
driver = "spi"
device = "/dev/spidev0.0"
freq_hz = 400000
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, StripConfig{
		Driver: SerialDriver,
		Device: "/dev/ttyACM0",
		Baud:   defaultBaud,
		Settle: TOMLDuration(500 * time.Millisecond),
	}, cfg.Tree)

	assert.Equal(t, StripConfig{
		Driver: SPIDriver,
		Device: "/dev/spidev0.0",
		FreqHz: 400000,
	}, cfg.Sky)
}

func TestParseConfigBadDuration(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
[tree]
driver = "serial"
settle = "soon"
`))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	preview := StripConfig{Driver: PreviewDriver}
	serial := StripConfig{Driver: SerialDriver, Device: "/dev/ttyACM0", Baud: defaultBaud}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{Tree: serial, Sky: preview}, ""},
		{"both preview", Config{Tree: preview, Sky: preview}, ""},
		{"missing driver", Config{Tree: preview}, "sky: no driver configured"},
		{"unknown driver", Config{Tree: StripConfig{Driver: "usb"}, Sky: preview}, `tree: unknown driver "usb"`},
		{"no device", Config{Tree: StripConfig{Driver: SerialDriver, Baud: 9600}, Sky: preview}, "tree: serial driver needs a device"},
		{"bad baud", Config{Tree: preview, Sky: StripConfig{Driver: SerialDriver, Device: "/dev/ttyACM1"}}, "sky: invalid baud rate 0"},
		{"bad freq", Config{Tree: StripConfig{Driver: SPIDriver, FreqHz: -1}, Sky: preview}, "tree: invalid SPI frequency -1"},
		{"shared device", Config{Tree: serial, Sky: serial}, `tree and sky cannot share device "/dev/ttyACM0"`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, test.wantErr)
			}
		})
	}
}

func TestUsePreview(t *testing.T) {
	cfg := Config{Tree: StripConfig{Driver: SerialDriver, Device: "/dev/ttyACM0"}}
	cfg.UsePreview()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, PreviewDriver, cfg.Tree.Driver)
	assert.Equal(t, PreviewDriver, cfg.Sky.Driver)
}

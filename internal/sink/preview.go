package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"libdb.so/treeglow/internal/led"
)

// previewGain brightens the dimmed frames so that they are visible in a
// terminal.
const previewGain = 10

// Preview prints every frame as a line of 24-bit colored dots. It is meant for
// running the daemon without any strip attached.
type Preview struct {
	w        io.Writer
	name     string
	buf      bytes.Buffer
	renderer *lipgloss.Renderer
}

// NewPreview creates a Preview sink writing to w. Each line is prefixed with
// name. w must be safe for concurrent use if it is shared between sinks; see
// SyncWriter.
func NewPreview(w io.Writer, name string) *Preview {
	// Always emit 24-bit colors, even when w is not a terminal.
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.TrueColor)

	return &Preview{w: w, name: name, renderer: renderer}
}

// Transmit implements anim.Sink. A frame is written with a single Write call.
func (p *Preview) Transmit(ctx context.Context, leds led.LEDs) error {
	p.buf.Reset()
	fmt.Fprintf(&p.buf, "%-6s", p.name)
	for _, c := range leds {
		hex := fmt.Sprintf("#%02x%02x%02x", gain(c.R()), gain(c.G()), gain(c.B()))
		p.buf.WriteString(p.renderer.NewStyle().Foreground(lipgloss.Color(hex)).Render("●"))
	}
	p.buf.WriteByte('\n')

	_, err := p.w.Write(p.buf.Bytes())
	return err
}

// Close implements io.Closer. It does nothing.
func (p *Preview) Close() error {
	return nil
}

func gain(v uint8) uint8 {
	if int(v)*previewGain > 0xFF {
		return 0xFF
	}
	return v * previewGain
}

// SyncWriter serializes writes to an underlying writer.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w.
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

// Write implements io.Writer.
func (w *SyncWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(b)
}

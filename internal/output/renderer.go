package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atikulmunna/sigma-input/internal/device"
	"github.com/atikulmunna/sigma-input/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes records to an output stream.
type Renderer interface {
	Render(rec model.Record) error
}

// New picks a renderer by format name ("text" or "json") writing to w.
func New(format string, w io.Writer) (Renderer, error) {
	if w == nil {
		w = os.Stdout
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return &TextRenderer{w: w}, nil
	case "json":
		return &JSONRenderer{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleTime     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // gray
	styleModifier = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true) // yellow bold
	styleKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // cyan
	styleDevice   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleSource   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
	styleName     = lipgloss.NewStyle().Bold(true)
)

// TextRenderer prints records to the terminal with per-kind colors.
type TextRenderer struct {
	w io.Writer
}

func (r *TextRenderer) Render(rec model.Record) error {
	ts := styleTime.Render(rec.Timestamp.Local().Format("15:04:05"))
	tag := styleKindTag(rec.Kind)

	line := fmt.Sprintf("%s %s %s", ts, tag, rec.Description)
	if rec.Source != "" {
		line = fmt.Sprintf("%s %s %s %s", ts, tag, styleSource.Render(rec.Source), rec.Description)
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func styleKindTag(kind model.Kind) string {
	padded := fmt.Sprintf("%-8s", kind)
	switch kind {
	case model.KindModifier:
		return styleModifier.Render(padded)
	case model.KindKey:
		return styleKey.Render(padded)
	default:
		return styleDevice.Render(padded)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each record as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

func (r *JSONRenderer) Render(rec model.Record) error {
	return r.enc.Encode(rec)
}

// ---------------------------------------------------------------------------
// Device listing
// ---------------------------------------------------------------------------

// RenderDevices prints discovered input devices in the given format.
func RenderDevices(w io.Writer, format string, infos []device.Info) error {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return json.NewEncoder(w).Encode(infos)
	}
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, styleDevice.Render("no input devices found"))
		return err
	}
	for _, info := range infos {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", info.Path, styleName.Render(info.Name)); err != nil {
			return err
		}
	}
	return nil
}

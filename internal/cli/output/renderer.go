// Package output renders command results in one of three modes: styled
// text for interactive terminals, markdown for pipes, and indented JSON
// for machine consumers. ModeAuto resolves from the output stream.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Mode selects how command output is rendered.
type Mode string

// Output modes. ModeAuto resolves to ModeText on a TTY and ModeMarkdown
// otherwise.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output to a pair of streams. Data goes to out;
// status messages and spinners go to errOut so piped output stays clean.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting the TTY state from out.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, detectTTY(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state so
// tests can pin mode resolution.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}
	r.styles = newStyles(isTTY && r.EffectiveMode() == ModeText)
	return r
}

func detectTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// EffectiveMode resolves ModeAuto against the TTY state. Unrecognized
// modes resolve like ModeAuto.
func (r *Renderer) EffectiveMode() Mode {
	switch r.mode {
	case ModeText, ModeMarkdown, ModeJSON:
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the data stream is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the data stream.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the status stream.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the style set for the effective mode. Outside
// interactive text mode every style is a plain passthrough.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line to the data stream.
func (r *Renderer) Println(s string) {
	fmt.Fprintln(r.out, s)
}

// Printf writes formatted output to the data stream.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// JSON writes v to the data stream as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success prints a checkmarked line to the data stream.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warning prints a warning to the status stream.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// Error prints an error to the status stream.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
}

// Muted prints a de-emphasized line to the data stream.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

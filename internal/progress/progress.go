// Package progress renders compressor progress on a terminal or as log lines.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/dendrascience/precompress/compressor"
	"github.com/dendrascience/precompress/internal/config"
)

const (
	barWidth        = 25
	defaultInterval = 5 * time.Second
)

// Renderer is a compressor.Observer. On a terminal it redraws a single
// progress bar line; elsewhere it logs progress at most once per interval.
type Renderer struct {
	out         io.Writer
	log         compressor.Logger
	interactive bool
	quiet       bool
	interval    time.Duration

	drawn   bool
	lastLog time.Time
}

var _ compressor.Observer = (*Renderer)(nil)

// NewRenderer picks the display from mode (config.ProgressAuto, Always or
// Never). In auto mode the bar is drawn only when out is a terminal.
func NewRenderer(out io.Writer, mode string, log compressor.Logger) *Renderer {
	r := &Renderer{out: out, log: log, interval: defaultInterval}
	switch mode {
	case config.ProgressAlways:
		r.interactive = true
	case config.ProgressNever:
		r.quiet = true
	default:
		r.interactive = IsTerminal(out)
	}
	return r
}

// SetInterval changes how often non-interactive progress is logged.
func (r *Renderer) SetInterval(d time.Duration) { r.interval = d }

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Bar renders "Compressing [=====     ] 40%" for s.
func Bar(s compressor.Snapshot, width int) string {
	filled := 0
	if s.Discovered > 0 {
		filled = int(s.Completed * int64(width) / s.Discovered)
	}
	filled = min(max(filled, 0), width)
	return fmt.Sprintf("Compressing [%s%s] %d%%",
		strings.Repeat("=", filled), strings.Repeat(" ", width-filled), s.Percent())
}

func (r *Renderer) OnStart(root string) {
	r.drawn = false
	r.lastLog = time.Time{}
}

func (r *Renderer) OnProgress(s compressor.Snapshot) {
	if r.quiet {
		return
	}
	if r.interactive {
		fmt.Fprintf(r.out, "\r%s", Bar(s, barWidth))
		r.drawn = true
		return
	}
	now := time.Now()
	if r.log == nil || now.Sub(r.lastLog) < r.interval {
		return
	}
	r.lastLog = now
	r.log.Infof("Progress: %d/%d files (%d%%)", s.Completed, s.Discovered, s.Percent())
}

func (r *Renderer) OnTaskDone(res compressor.TaskResult) {}

func (r *Renderer) OnFinish(s compressor.Summary) {
	if r.drawn {
		fmt.Fprintln(r.out)
		r.drawn = false
	}
	fmt.Fprintf(r.out, "Finished! Compressed %s files\n", color.New(color.FgHiGreen).Sprint(s.Completed))
	if r.log != nil {
		r.log.Infof("Run %s: %s", s.RunID, s)
		if len(s.FailedFiles) > 0 {
			r.log.Warnf("%d files had codec failures", len(s.FailedFiles))
		}
	}
}

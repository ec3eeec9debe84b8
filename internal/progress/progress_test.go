package progress

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dendrascience/precompress/compressor"
	"github.com/dendrascience/precompress/internal/config"
)

type captureLogger struct {
	lines []string
}

func (c *captureLogger) Debugf(format string, args ...any) { c.add("DEBUG", format, args...) }
func (c *captureLogger) Infof(format string, args ...any)  { c.add("INFO", format, args...) }
func (c *captureLogger) Warnf(format string, args ...any)  { c.add("WARN", format, args...) }
func (c *captureLogger) add(level, format string, args ...any) {
	c.lines = append(c.lines, level+" "+fmt.Sprintf(format, args...))
}

func TestBar(t *testing.T) {
	tests := []struct {
		name string
		snap compressor.Snapshot
		want string
	}{
		{name: "nothing discovered", snap: compressor.Snapshot{}, want: "Compressing [          ] 0%"},
		{name: "forty percent", snap: compressor.Snapshot{Discovered: 5, Completed: 2}, want: "Compressing [====      ] 40%"},
		{name: "done", snap: compressor.Snapshot{Discovered: 3, Completed: 3}, want: "Compressing [==========] 100%"},
		{name: "rounds down", snap: compressor.Snapshot{Discovered: 3, Completed: 1}, want: "Compressing [===       ] 33%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bar(tt.snap, 10))
		})
	}
}

func TestInteractiveRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewRenderer(buf, config.ProgressAlways, nil)

	r.OnStart("/data")
	r.OnProgress(compressor.Snapshot{Discovered: 1})
	r.OnProgress(compressor.Snapshot{Discovered: 2})
	r.OnProgress(compressor.Snapshot{Discovered: 2, Completed: 1})
	r.OnProgress(compressor.Snapshot{Discovered: 2, Completed: 2})
	r.OnFinish(compressor.Summary{Discovered: 2, Completed: 2})

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "\rCompressing ["))
	assert.Contains(t, out, "] 50%")
	assert.Contains(t, out, "] 100%\n")
	assert.Contains(t, out, "Finished! Compressed ")
	assert.True(t, strings.HasSuffix(out, " files\n"))
}

func TestNonInteractiveRendererLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	log := &captureLogger{}
	r := NewRenderer(buf, config.ProgressAuto, log)
	r.SetInterval(0)

	r.OnStart("/data")
	r.OnProgress(compressor.Snapshot{Discovered: 4, Completed: 1})
	r.OnFinish(compressor.Summary{RunID: "abc", Discovered: 4, Completed: 4, FailedFiles: []string{"/data/x"}})

	assert.NotContains(t, buf.String(), "\r", "a buffer is never a terminal")
	assert.Contains(t, buf.String(), "Finished! Compressed ")
	assert.Contains(t, log.lines, "INFO Progress: 1/4 files (25%)")
	assert.Contains(t, strings.Join(log.lines, "\n"), "Run abc: 4/4 files")
	assert.Contains(t, log.lines, "WARN 1 files had codec failures")
}

func TestNonInteractiveRendererThrottles(t *testing.T) {
	log := &captureLogger{}
	r := NewRenderer(&bytes.Buffer{}, config.ProgressAuto, log)

	r.OnStart("/data")
	for i := range 100 {
		r.OnProgress(compressor.Snapshot{Discovered: 100, Completed: int64(i)})
	}
	assert.Len(t, log.lines, 1)
}

func TestQuietRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	log := &captureLogger{}
	r := NewRenderer(buf, config.ProgressNever, log)
	r.SetInterval(0)

	r.OnStart("/data")
	r.OnProgress(compressor.Snapshot{Discovered: 1})
	r.OnFinish(compressor.Summary{Discovered: 1, Completed: 1})

	assert.NotContains(t, buf.String(), "Compressing [")
	assert.Contains(t, buf.String(), "Finished! Compressed ")
	for _, line := range log.lines {
		assert.NotContains(t, line, "Progress:")
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

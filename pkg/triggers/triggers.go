package triggers

import (
	"fmt"
	"io"
	"sync"
)

// DefaultPrefix is written before every path by LineReporter
const DefaultPrefix = "rerun-if-changed="

// Reporter receives each path a pass depends on.
type Reporter interface {
	Report(path string) error
}

// LineReporter writes one "<prefix><path>" line per path.
type LineReporter struct {
	W      io.Writer
	Prefix string
}

// Report implements Reporter
func (r *LineReporter) Report(path string) error {
	_, err := fmt.Fprintf(r.W, "%s%s\n", r.Prefix, path)
	return err
}

// Collector keeps reported paths in memory. Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	paths []string
}

// Report implements Reporter
func (c *Collector) Report(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
	return nil
}

// Paths returns a copy of everything reported so far.
func (c *Collector) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

// Reset forgets all reported paths.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = nil
}

// Multi fans a report out to several reporters, stopping at the first error.
type Multi []Reporter

// Report implements Reporter
func (m Multi) Report(path string) error {
	for _, r := range m {
		if err := r.Report(path); err != nil {
			return err
		}
	}
	return nil
}

type nop struct{}

func (nop) Report(string) error { return nil }

// Nop discards every report.
var Nop Reporter = nop{}

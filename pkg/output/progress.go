package output

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate = `{{string . "prefix"}} {{counters . }} files {{etime . }}`

// Progress counts enumerated files and, when enabled, renders a live counter
type Progress struct {
	bar   *pb.ProgressBar
	count atomic.Int64
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewProgress starts a progress counter labelled label.
// The bar is only drawn when enabled; counting always happens.
func NewProgress(w io.Writer, label string, enabled bool) *Progress {
	p := &Progress{}
	if enabled {
		p.bar = pb.ProgressBarTemplate(progressTemplate).New(0)
		p.bar.SetWriter(w)
		p.bar.Set("prefix", label)
		p.bar.Start()
	}
	return p
}

// Increment counts one file. Safe for concurrent use.
func (p *Progress) Increment() {
	p.count.Add(1)
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Count returns the number of files counted so far
func (p *Progress) Count() int64 {
	return p.count.Load()
}

// Finish stops rendering
func (p *Progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

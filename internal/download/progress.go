package download

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Daihongyi/surf/internal/output"
)

// Progress is the shared byte counter for one transfer. Every worker of the
// transfer adds to it; the display poller reads it. The count never
// decreases within one invocation.
type Progress struct {
	downloaded atomic.Int64
	total      int64 // 0 = unknown
}

func NewProgress(initial, total int64) *Progress {
	p := &Progress{total: total}
	p.downloaded.Store(initial)
	return p
}

func (p *Progress) Add(n int64) {
	p.downloaded.Add(n)
}

func (p *Progress) Downloaded() int64 {
	return p.downloaded.Load()
}

func (p *Progress) Total() int64 {
	return p.total
}

// Display polls a Progress and redraws a single status line.
type Display struct {
	progress  *Progress
	doneCh    chan struct{}
	stopped   chan struct{}
	lastBytes int64
	lastTime  time.Time
	drewLine  bool
}

func NewDisplay(progress *Progress) *Display {
	return &Display{
		progress: progress,
		doneCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (d *Display) Start() {
	d.lastTime = time.Now()
	d.lastBytes = d.progress.Downloaded()
	go func() {
		defer close(d.stopped)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.redraw()
			case <-d.doneCh:
				d.redraw()
				if d.drewLine {
					fmt.Println()
				}
				return
			}
		}
	}()
}

// Stop finishes the display and waits for the final redraw.
func (d *Display) Stop() {
	close(d.doneCh)
	<-d.stopped
}

func (d *Display) redraw() {
	downloaded := d.progress.Downloaded()
	total := d.progress.Total()
	now := time.Now()
	timeDiff := now.Sub(d.lastTime).Seconds()
	speed := float64(0)
	if timeDiff > 0 {
		speed = float64(downloaded-d.lastBytes) / timeDiff
		d.lastTime = now
		d.lastBytes = downloaded
	}
	if d.drewLine {
		fmt.Print("\033[1A\033[J")
	}
	if total > 0 {
		eta := "calculating..."
		if speed > 0 {
			eta = output.FormatETA(int64(float64(total-downloaded) / speed))
		}
		fmt.Printf("%s %s/%s %s ETA: %s\n",
			output.ProgressBar(downloaded, total, progressBarWidth(output.TerminalWidth())),
			output.FormatBytes(uint64(downloaded)),
			output.FormatBytes(uint64(total)),
			output.FormatSpeed(int64(speed), 1),
			eta)
	} else {
		// total size unknown
		fmt.Printf("%s %s %s\n",
			output.FDebug(StyleSpinner()),
			output.FormatBytes(uint64(downloaded)),
			output.FormatSpeed(int64(speed), 1))
	}
	d.drewLine = true
}

// progressBarWidth sizes the bar from the terminal width, leaving room for
// the byte counts, speed and ETA columns on the same line.
func progressBarWidth(termWidth int) int {
	width := termWidth - 45
	if width < 10 {
		width = 10
	}
	if width > 60 {
		width = 60
	}
	return width
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
var spinnerIdx int

func StyleSpinner() string {
	spinnerIdx = (spinnerIdx + 1) % len(spinnerFrames)
	return spinnerFrames[spinnerIdx]
}

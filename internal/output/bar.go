package output

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/tdh8316/gitlabenum/internal/probe"
)

// BarObserver draws a progress bar and forwards found and error events to
// a quiet Printer. Bar redraws and permanent lines share one lock so they
// never interleave on w.
type BarObserver struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	printer *Printer
}

func NewBarObserver(w io.Writer, total int, noColor bool) *BarObserver {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Checking usernames..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(!noColor),
		progressbar.OptionClearOnFinish(),
	)
	return &BarObserver{
		bar:     bar,
		printer: NewPrinter(w, noColor).Quiet(),
	}
}

func (b *BarObserver) Attempt(int, int, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Add(1)
}

func (b *BarObserver) Found(found []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Clear()
	b.printer.Found(found)
	_ = b.bar.RenderBlank()
}

func (b *BarObserver) Error(res probe.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Clear()
	b.printer.Error(res)
	_ = b.bar.RenderBlank()
}

func (b *BarObserver) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Finish()
}

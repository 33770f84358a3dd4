package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"github.com/tdh8316/gitlabenum/internal/probe"
)

const clearLine = "\r\033[K"

// Printer renders dispatcher events as console lines. Attempt lines are
// transient and overwritten in place; found and error lines are permanent.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool
	quiet   bool
	// printed is the length of the last found list written. The list only
	// grows, so a shorter or equal one is a stale snapshot.
	printed int
}

func NewPrinter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor}
}

// ConsoleWriter wraps a terminal file so color escapes render on Windows
// consoles too. Other writers are returned unchanged.
func ConsoleWriter(w io.Writer, noColor bool) io.Writer {
	if f, ok := w.(*os.File); ok && !noColor {
		return colorable.NewColorable(f)
	}
	return w
}

// Quiet suppresses attempt lines. It is used when a progress bar owns the
// current line.
func (p *Printer) Quiet() *Printer {
	p.quiet = true
	return p
}

func (p *Printer) paint(c *color.Color, s string) string {
	if p.noColor {
		return s
	}
	return c.Sprint(s)
}

func (p *Printer) Attempt(index, total int, candidate string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\rAttempt %d of %d: Trying username '%s'\033[K",
		index, total, p.paint(color.New(color.FgHiCyan), candidate))
}

func (p *Printer) Found(found []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(found) <= p.printed {
		return
	}
	p.printed = len(found)
	fmt.Fprintf(p.w, "%s%s %s\n", clearLine,
		p.paint(color.New(color.FgMagenta), "[+] Found usernames:"),
		p.paint(color.New(color.FgHiGreen), strings.Join(found, ", ")))
}

func (p *Printer) Error(res probe.Result) {
	reason := "unknown error"
	if res.Err != nil {
		reason = res.Err.Error()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s%s %s\n", clearLine,
		p.paint(color.New(color.FgRed), "[!] Error checking username "+res.Candidate+":"),
		p.paint(color.New(color.FgHiYellow), reason))
}

func (p *Printer) Done() {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, clearLine)
}

// Summary prints the final line of a run.
func (p *Printer) Summary(found int, outPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if found == 0 {
		fmt.Fprintf(p.w, "%s No valid usernames were found.\n", p.paint(color.New(color.FgRed), "[!]"))
		return
	}
	fmt.Fprintf(p.w, "%s Script completed. Valid usernames saved to %s\n",
		p.paint(color.New(color.FgMagenta), "[+]"),
		p.paint(color.New(color.FgHiGreen), outPath))
}

// Package notice is the single channel through which generation progress
// and failures reach the user.
package notice

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gerunddev/vaultsummary/internal/styles"
	"github.com/mattn/go-isatty"
)

// Notifier shows transient and final status messages
type Notifier interface {
	// Progress shows a message until the returned function is called
	Progress(msg string) (hide func())
	Success(msg string)
	Failure(err error)
}

// Terminal writes notices to a terminal or plain stream
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	tty bool
}

// NewTerminal returns a notifier writing to out.
// Progress lines are erased when hidden only if out is a terminal.
func NewTerminal(out io.Writer) *Terminal {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Terminal{out: out, tty: tty}
}

func (t *Terminal) Progress(msg string) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tty {
		fmt.Fprintln(t.out, styles.DimStyle.Render("… "+msg))
		return func() {}
	}

	fmt.Fprint(t.out, styles.SpinnerStyle.Render("● ")+styles.DimStyle.Render(msg))
	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			fmt.Fprint(t.out, "\r\x1b[2K")
		})
	}
}

func (t *Terminal) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, styles.SuccessStyle.Render("✓ "+msg))
}

func (t *Terminal) Failure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, styles.ErrorStyle.Render("✗ "+Message(err)))
}

// Message formats an error the way it is shown to the user
func Message(err error) string {
	return "Error: " + err.Error()
}

type discard struct{}

func (discard) Progress(string) func() {
	return func() {}
}

func (discard) Success(string) {}

func (discard) Failure(error) {}

// Discard is a notifier that shows nothing
var Discard Notifier = discard{}

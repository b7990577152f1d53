// Package output applies translation result side effects (clipboard and toast).
package output

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// DefaultResetDelay is how long Copied stays true after a copy.
const DefaultResetDelay = 1600 * time.Millisecond

// Writer places text on a clipboard.
type Writer interface {
	WriteText(context.Context, string) error
}

// SystemClipboard writes through the platform clipboard utility.
type SystemClipboard struct{}

// WriteText implements Writer.
func (SystemClipboard) WriteText(_ context.Context, text string) error {
	return clipboard.WriteAll(text)
}

// CommandClipboard pipes text to an external command such as wl-copy.
type CommandClipboard struct {
	Argv []string
}

// WriteText implements Writer.
func (c CommandClipboard) WriteText(ctx context.Context, text string) error {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return runCommandWithInput(runCtx, c.Argv, text)
}

// NewWriter returns a CommandClipboard for a non-empty argv and the system
// clipboard otherwise.
func NewWriter(argv []string) Writer {
	if len(argv) == 0 {
		return SystemClipboard{}
	}
	return CommandClipboard{Argv: argv}
}

// Copier copies text and keeps a copied flag raised for a short delay. A new
// copy cancels the pending reset.
type Copier struct {
	writer Writer
	delay  time.Duration

	mu      sync.Mutex
	copied  bool
	timer   *time.Timer
	gen     uint64
	onReset func()
}

// NewCopier builds a copier. A non-positive delay uses DefaultResetDelay.
func NewCopier(w Writer, delay time.Duration) *Copier {
	if delay <= 0 {
		delay = DefaultResetDelay
	}
	return &Copier{writer: w, delay: delay}
}

// Copy writes trimmed text to the clipboard. Blank text is ignored and reports
// false.
func (c *Copier) Copy(ctx context.Context, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}
	if err := c.writer.WriteText(ctx, text); err != nil {
		return false, fmt.Errorf("set clipboard: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.copied = true
	c.timer = time.AfterFunc(c.delay, func() { c.reset(gen) })
	return true, nil
}

// Copied reports whether a copy happened within the reset delay.
func (c *Copier) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Stop cancels any pending reset and clears the flag.
func (c *Copier) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.copied = false
}

func (c *Copier) reset(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.copied = false
	c.timer = nil
	hook := c.onReset
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// runCommandWithInput executes argv and writes input to stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(input)
	if out, err := cmd.CombinedOutput(); err != nil {
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			return fmt.Errorf("run %s: %w (%s)", argv[0], err, trimmed)
		}
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}

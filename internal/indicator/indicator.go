// Package indicator surfaces translation completion as a desktop toast and an
// optional audio cue.
package indicator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/HandyWote/Translater/internal/config"
)

// Toast is one desktop notification.
type Toast struct {
	Summary   string
	Body      string
	TimeoutMS int
}

// Notifier is the delivery-facing indicator contract.
type Notifier interface {
	Notify(context.Context, Toast) error
}

// Desktop sends freedesktop notifications over DBus and plays the completion
// cue through PulseAudio.
type Desktop struct {
	cfg    config.NotifyConfig
	logger *slog.Logger

	mu             sync.Mutex
	notificationID uint32
	soundMu        sync.Mutex
	cue            func(context.Context) error
}

// NewDesktop creates a desktop notifier from runtime config.
func NewDesktop(cfg config.NotifyConfig, logger *slog.Logger) *Desktop {
	return &Desktop{cfg: cfg, logger: logger, cue: emitCue}
}

// Notify replaces the previous toast and emits the completion cue. The cue
// plays asynchronously and its failures are only logged.
func (d *Desktop) Notify(ctx context.Context, toast Toast) error {
	d.playCue()

	runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()

	d.mu.Lock()
	replaceID := d.notificationID
	d.mu.Unlock()

	appName := strings.TrimSpace(d.cfg.AppName)
	if appName == "" {
		appName = "translater"
	}

	if toast.TimeoutMS <= 0 {
		toast.TimeoutMS = defaultToastTimeoutMS
	}

	id, err := showToast(runCtx, appName, replaceID, toast)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.notificationID = id
	d.mu.Unlock()
	return nil
}

// Dismiss closes the most recent toast when one is showing.
func (d *Desktop) Dismiss(ctx context.Context) error {
	d.mu.Lock()
	id := d.notificationID
	d.notificationID = 0
	d.mu.Unlock()

	if id == 0 {
		return nil
	}

	runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()
	return closeToast(runCtx, id)
}

// playCue serializes cue playback and emits audio asynchronously.
func (d *Desktop) playCue() {
	if !d.cfg.Sound {
		return
	}
	go func() {
		d.soundMu.Lock()
		defer d.soundMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		if err := d.cue(ctx); err != nil && d.logger != nil {
			d.logger.Debug("indicator audio cue failed", "error", err.Error())
		}
	}()
}

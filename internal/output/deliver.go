package output

import (
	"context"
	"log/slog"
	"strings"

	"github.com/HandyWote/Translater/internal/indicator"
	"github.com/HandyWote/Translater/internal/settings"
)

// Delivery reports which side effects ran for one result.
type Delivery struct {
	Copied   bool `json:"copied"`
	Notified bool `json:"notified"`
}

// Deliverer applies the settings-driven post-translation effects.
type Deliverer struct {
	copier   *Copier
	notifier indicator.Notifier
	logger   *slog.Logger
}

// NewDeliverer constructs a deliverer. A nil notifier disables toasts.
func NewDeliverer(copier *Copier, notifier indicator.Notifier, logger *slog.Logger) *Deliverer {
	return &Deliverer{copier: copier, notifier: notifier, logger: logger}
}

// Deliver copies the result when autoCopyResult is set and shows a toast when
// showToastOnComplete is set. Only clipboard failures are returned; toast
// failures are logged.
func (d *Deliverer) Deliver(ctx context.Context, s settings.Settings, translated string) (Delivery, error) {
	var delivery Delivery
	if strings.TrimSpace(translated) == "" {
		return delivery, nil
	}

	if s.AutoCopyResult && d.copier != nil {
		copied, err := d.copier.Copy(ctx, translated)
		if err != nil {
			return delivery, err
		}
		delivery.Copied = copied
	}

	if s.ShowToastOnComplete && d.notifier != nil {
		toast := indicator.CompletionToast(translated, delivery.Copied)
		if err := d.notifier.Notify(ctx, toast); err != nil {
			d.logWarn("completion toast failed", err)
		} else {
			delivery.Notified = true
		}
	}

	return delivery, nil
}

func (d *Deliverer) logWarn(message string, err error) {
	if d.logger == nil || err == nil {
		return
	}
	d.logger.Warn(message, "error", err.Error())
}

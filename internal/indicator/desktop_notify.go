package indicator

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	notificationsBus  = "org.freedesktop.Notifications"
	notificationsPath = "/org/freedesktop/Notifications"
	toastIcon         = "accessories-dictionary"

	defaultToastTimeoutMS = 3000
)

// notificationHints is the a{sv} hint map: urgency=low.
var notificationHints = []string{"1", "urgency", "y", "0"}

// showToast sends (or replaces) a toast and returns the server-assigned ID.
func showToast(ctx context.Context, appName string, replaceID uint32, toast Toast) (uint32, error) {
	args := []string{
		appName,
		strconv.FormatUint(uint64(replaceID), 10),
		toastIcon,
		toast.Summary,
		toast.Body,
		"0",
	}
	args = append(args, notificationHints...)
	args = append(args, strconv.Itoa(toast.TimeoutMS))

	reply, err := callNotifications(ctx, "desktop notify", "Notify", "susssasa{sv}i", args...)
	if err != nil {
		return 0, err
	}
	return parseNotificationID(reply)
}

func closeToast(ctx context.Context, id uint32) error {
	_, err := callNotifications(ctx, "desktop dismiss", "CloseNotification", "u", strconv.FormatUint(uint64(id), 10))
	return err
}

// callNotifications invokes one org.freedesktop.Notifications method on the
// user bus through busctl and returns its trimmed reply.
func callNotifications(ctx context.Context, op, method, signature string, args ...string) (string, error) {
	argv := append([]string{"--user", "call", notificationsBus, notificationsPath, notificationsBus, method, signature}, args...)
	out, err := exec.CommandContext(ctx, "busctl", argv...).CombinedOutput()
	reply := strings.TrimSpace(string(out))
	if err != nil {
		if reply == "" {
			return "", fmt.Errorf("%s failed: %w", op, err)
		}
		return "", fmt.Errorf("%s failed: %w (%s)", op, err, reply)
	}
	return reply, nil
}

// parseNotificationID reads a busctl "u <id>" reply.
func parseNotificationID(reply string) (uint32, error) {
	kind, value, ok := strings.Cut(reply, " ")
	if !ok || kind != "u" {
		return 0, fmt.Errorf("desktop notify invalid response: %q", reply)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("desktop notify parse id %q: %w", value, err)
	}
	return uint32(id), nil
}

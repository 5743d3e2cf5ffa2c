// Package systemd reports service state to the systemd notify socket.
// Every call is a no-op when the process is not run by systemd.
package systemd

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	logx "homeworkbot/pkg/logx"
)

// Notifier sends sd_notify states. The zero value is ready to use.
type Notifier struct {
	Log logx.Logger

	// notify is daemon.SdNotify; replaced in tests.
	notify func(unsetEnvironment bool, state string) (bool, error)
}

func (n *Notifier) send(state string) bool {
	fn := n.notify
	if fn == nil {
		fn = daemon.SdNotify
	}
	sent, err := fn(false, state)
	if err != nil {
		n.Log.Warn("sd_notify failed", logx.String("state", state), logx.Err(err))
		return false
	}
	return sent
}

// Ready signals that startup finished.
func (n *Notifier) Ready() bool { return n.send(daemon.SdNotifyReady) }

// Watchdog pets the systemd watchdog.
func (n *Notifier) Watchdog() bool { return n.send(daemon.SdNotifyWatchdog) }

// Stopping signals that shutdown began.
func (n *Notifier) Stopping() bool { return n.send(daemon.SdNotifyStopping) }

// Status sets the free-form STATUS= line shown by systemctl status.
func (n *Notifier) Status(s string) bool { return n.send("STATUS=" + s) }

// WatchdogInterval returns the configured WatchdogSec, or 0 when the
// watchdog is disabled for this process.
func WatchdogInterval() time.Duration {
	d, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return 0
	}
	return d
}

// RunWatchdog pets the watchdog every half interval until ctx is done.
// It returns immediately when interval is not positive.
func (n *Notifier) RunWatchdog(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	t := time.NewTicker(interval / 2)
	defer t.Stop()
	n.Watchdog()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n.Watchdog()
		}
	}
}

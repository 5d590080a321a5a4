//go:build linux

package notify

import "os/exec"

func sendOSNotification(app, title, body string) error {
	return start(exec.Command("notify-send", "-a", app, title, body))
}

//go:build darwin

package notify

import (
	"os/exec"
	"strings"
)

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func sendOSNotification(_, title, body string) error {
	script := `display notification "` + appleScriptEscaper.Replace(body) +
		`" with title "` + appleScriptEscaper.Replace(title) + `"`
	return start(exec.Command("osascript", "-e", script))
}

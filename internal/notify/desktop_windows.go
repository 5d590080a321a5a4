//go:build windows

package notify

import (
	"os/exec"
	"strings"
)

func sendOSNotification(_, title, body string) error {
	// Escape single quotes for PowerShell string literals.
	title = strings.ReplaceAll(title, "'", "''")
	body = strings.ReplaceAll(body, "'", "''")

	// Balloon tip through Windows Forms; needs neither WinRT nor extra modules.
	script := `Add-Type -AssemblyName System.Windows.Forms;` +
		`$n = New-Object System.Windows.Forms.NotifyIcon;` +
		`$n.Icon = [System.Drawing.SystemIcons]::Information;` +
		`$n.BalloonTipTitle = '` + title + `';` +
		`$n.BalloonTipText = '` + body + `';` +
		`$n.Visible = $true;` +
		`$n.ShowBalloonTip(5000);` +
		`Start-Sleep -Milliseconds 5100;` +
		`$n.Dispose()`
	return start(exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script))
}

//go:build !linux && !darwin && !windows

package notify

import "errors"

func sendOSNotification(_, _, _ string) error {
	return errors.New("desktop notifications not supported on this platform")
}

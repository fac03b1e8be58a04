//go:build !windows

package notification

import "github.com/gen2brain/beeep"

func alert(title, message, icon string) error {
	return beeep.Alert(title, message, icon)
}

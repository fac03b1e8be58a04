//go:build !windows

package clipfiles

import "ztools-native/src/events"

func openClipboard() bool { return false }

func readPaths(Config) ([]string, error) {
	return nil, events.ErrUnsupported
}

func writePaths(Config, []string) error {
	return events.ErrUnsupported
}

//go:build !windows

package main

import (
	"go.uber.org/zap"

	"ztools-native/src/screenshot"
)

func enableDPIAwareness() {}

func logMonitorConfiguration() {
	vb, err := screenshot.VirtualBounds()
	if err != nil {
		zap.S().Warnf("MONITOR: %v", err)
		return
	}
	zap.S().Infof("MONITOR: %d displays, virtual screen %v", len(screenshot.Displays()), vb)
}

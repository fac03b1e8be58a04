//go:build windows

package main

import (
	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"ztools-native/src/screenshot"
)

var (
	shcore                     = windows.NewLazySystemDLL("Shcore.dll")
	user32                     = windows.NewLazySystemDLL("user32.dll")
	procSetProcessDpiAwareness = shcore.NewProc("SetProcessDpiAwareness")
	procSetProcessDPIAware     = user32.NewProc("SetProcessDPIAware")
	procGetSystemMetrics       = user32.NewProc("GetSystemMetrics")
)

const processPerMonitorDPIAware = 2

// enableDPIAwareness makes overlay and screen coordinates physical pixels.
func enableDPIAwareness() {
	if err := procSetProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := procSetProcessDpiAwareness.Call(processPerMonitorDPIAware)
		if ret == 0 {
			zap.S().Debugf("DPI: per-monitor awareness enabled")
		} else {
			zap.S().Debugf("DPI: SetProcessDpiAwareness failed, code %d", ret)
		}
		return
	}

	zap.S().Debugf("DPI: Shcore.SetProcessDpiAwareness not available, trying fallback")
	if err := procSetProcessDPIAware.Find(); err != nil {
		zap.S().Debugf("DPI: SetProcessDPIAware not available, no DPI awareness set")
		return
	}
	if ret, _, _ := procSetProcessDPIAware.Call(); ret != 0 {
		zap.S().Debugf("DPI: system awareness enabled (fallback)")
	}
}

func logMonitorConfiguration() {
	const smCMonitors = 80
	n, _, _ := procGetSystemMetrics.Call(smCMonitors)
	vb, err := screenshot.VirtualBounds()
	if err != nil {
		zap.S().Warnf("MONITOR: %v", err)
		return
	}
	zap.S().Infof("MONITOR: %d monitors, virtual screen %v", n, vb)
}

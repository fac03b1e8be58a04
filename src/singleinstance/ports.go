package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49500
	defaultPortEnd   = 49550

	portStartEnv = "SINGLEINSTANCE_PORT_START"
	portEndEnv   = "SINGLEINSTANCE_PORT_END"
)

// getPortRange returns the inclusive port range from the environment,
// falling back per bound when unset or invalid and clamping to [1024, 65535].
func getPortRange() (int, int) {
	start := envPort(portStartEnv, defaultPortStart)
	end := envPort(portEndEnv, defaultPortEnd)
	start = max(start, 1024)
	end = min(end, 65535)
	if end < start {
		start, end = end, start
	}
	return start, end
}

func envPort(name string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return n
	}
	return def
}

// PortRange exposes the effective range for diagnostics.
func PortRange() (int, int) { return getPortRange() }

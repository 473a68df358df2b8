package service

import (
	"fmt"
	"net"
)

// ReputationHeuristic is the default IP scoring strategy: a cheap,
// deterministic stand-in for a real reputation provider. Deployments with a
// provider integration swap in their own IPScorer.
func ReputationHeuristic(ip string) (int, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return 0, fmt.Errorf("invalid ip: %s", ip)
	}
	switch {
	case parsed.IsUnspecified():
		return 50, nil
	case parsed.IsLoopback(), parsed.IsPrivate():
		// Private-range traffic on a public tracking endpoint is usually
		// proxied or spoofed.
		return 30, nil
	default:
		return 0, nil
	}
}

package security

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sgaunet/bullets"
)

// DebugAuth logs the transport credentials chosen for a remote. Values are
// passed through SanitizeMap and printed in key order.
func DebugAuth(log *bullets.Logger, method string, details map[string]string) {
	if log == nil {
		return
	}

	fields := make(map[string]any, len(details))
	for k, v := range details {
		fields[k] = v
	}
	fields = SanitizeMap(fields)

	pairs := make([]string, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	log.Debug(fmt.Sprintf("Using %s authentication (%s)", method, strings.Join(pairs, " ")))
}

// DebugSSHKey logs an SSH key candidate with its home directory masked.
func DebugSSHKey(log *bullets.Logger, keyFile string, selected bool) {
	if log == nil {
		return
	}
	if selected {
		log.Debug("SSH authentication configured with key: " + MaskSSHKeyPath(keyFile))
		return
	}
	log.Debug("Trying SSH key: " + MaskSSHKeyPath(keyFile))
}

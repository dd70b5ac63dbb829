// internal/snapshot/address.go
package snapshot

import "strings"

// Sentinel marks a key as a controller-addressable variable.
// The controller itself never sees it.
const Sentinel = "%"

// IsAddressable reports whether key carries the sentinel and a name after it.
func IsAddressable(key string) bool {
	return len(key) > len(Sentinel) && strings.HasPrefix(key, Sentinel)
}

// Strip removes the sentinel. ok is false if key is not addressable.
func Strip(key string) (string, bool) {
	if !IsAddressable(key) {
		return "", false
	}
	return key[len(Sentinel):], true
}

// Attach prefixes name with the sentinel unless it already has one.
func Attach(name string) string {
	if strings.HasPrefix(name, Sentinel) {
		return name
	}
	return Sentinel + name
}

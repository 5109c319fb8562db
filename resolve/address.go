package resolve

import "github.com/dogeorg/explorer/spec"

// outputAddress normalizes the two scriptPubKey shapes the node emits:
// `addresses` (first entry wins) with `address` as the fallback.
// Outputs with neither (nulldata, nonstandard) resolve to no address.
func outputAddress(pk spec.ScriptPubKey) (string, bool) {
	if len(pk.Addresses) > 0 && pk.Addresses[0] != "" {
		return pk.Addresses[0], true
	}
	if pk.Address != "" {
		return pk.Address, true
	}
	return "", false
}

package domain

import "regexp"

// Arweave addresses are 43 base64url characters, no padding.
var arweaveAddressPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{43}$`)

func IsValidArweaveAddress(address string) bool {
	return arweaveAddressPattern.MatchString(address)
}

// InvalidAddresses returns the subset of addresses failing the shape check,
// in input order.
func InvalidAddresses(addresses []string) []string {
	var invalid []string
	for _, address := range addresses {
		if !IsValidArweaveAddress(address) {
			invalid = append(invalid, address)
		}
	}
	return invalid
}

// TruncateAddress shortens an address for notification text.
func TruncateAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:10] + "..."
}

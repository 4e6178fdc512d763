package valueobjects

import (
	"regexp"
	"unicode/utf8"
)

var (
	agentNamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	xrpAddressPattern = regexp.MustCompile(`^r[1-9A-HJ-NP-Za-km-z]{24,34}$`)
)

const (
	MinAgentNameLength = 3
	MaxAgentNameLength = 20
)

// IsValidAgentName accepts 3-20 letters, digits or underscores
func IsValidAgentName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < MinAgentNameLength || n > MaxAgentNameLength {
		return false
	}
	return agentNamePattern.MatchString(name)
}

// IsValidXRPAddress checks the shape of a classic XRP Ledger address.
// The checksum is not verified.
func IsValidXRPAddress(addr string) bool {
	return xrpAddressPattern.MatchString(addr)
}

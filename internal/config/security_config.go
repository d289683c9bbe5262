package config

import (
	"net/netip"
	"strings"
)

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetRateLimitPerMinute() int
	GetTrustedProxies() []netip.Prefix
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetEnableRateLimiting() bool {
	return GetEnvBool("RATE_LIMIT_ENABLED", false)
}

// GetRateLimitPerMinute is the number of auth attempts a single client address may make per minute.
func (Security) GetRateLimitPerMinute() int {
	return GetEnvInt("RATE_LIMIT_PER_MINUTE", 20)
}

// GetTrustedProxies reads TRUSTED_PROXIES, a comma separated list of
// addresses or CIDR ranges. Entries that do not parse are skipped.
func (Security) GetTrustedProxies() []netip.Prefix {
	return ParseTrustedProxies(GetEnv("TRUSTED_PROXIES", ""))
}

func ParseTrustedProxies(list string) []netip.Prefix {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}

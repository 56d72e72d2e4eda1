// Package ssrf implements the SSRF-safe URL/domain validation contract
// (§6): the check a direct-execution runner must pass before any replay of
// a recipe's request spec is considered. It is consumed by the minimizer
// and verifier's injected Replayer implementations and by the recipe store
// before a spec is saved.
package ssrf

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/marcohefti/moneyrecipe/internal/perr"
)

// Resolver resolves a hostname to its set of IP addresses. net.DefaultResolver
// satisfies this; tests inject a fake to avoid real DNS.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// ValidateURLSafe checks that raw is a safe direct-execution target: scheme
// http/https, no userinfo, a present hostname that is not itself a blocked
// IP literal, and (for a non-IP hostname) DNS resolution where every
// returned address is public. It never mutates raw; callers run this
// immediately before replay, per the SSRF safety contract.
func ValidateURLSafe(ctx context.Context, raw string, resolver Resolver) error {
	u, err := url.Parse(raw)
	if err != nil {
		return perr.New(perr.SSRFBlocked, "could not parse URL: "+err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return perr.New(perr.SSRFBlocked, "scheme must be http or https, got "+u.Scheme)
	}
	if u.User != nil {
		return perr.New(perr.SSRFBlocked, "URL must not contain userinfo")
	}
	hostname := u.Hostname()
	if hostname == "" {
		return perr.New(perr.SSRFBlocked, "URL must have a hostname")
	}

	// Strip an IPv6 zone ID (fe80::1%eth0): it can otherwise be used to
	// dodge the literal-IP check below.
	if idx := strings.IndexByte(hostname, '%'); idx >= 0 {
		hostname = hostname[:idx]
	}

	if ip := normalizeIPLiteral(hostname); ip != nil {
		if isBlockedIP(ip) {
			return perr.New(perr.SSRFBlocked, "IP "+ip.String()+" is private/loopback/link-local/reserved/multicast")
		}
		return nil
	}

	if resolver == nil {
		resolver = net.DefaultResolver
	}
	addrs, err := resolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return perr.New(perr.SSRFBlocked, "could not resolve hostname "+hostname+": "+err.Error())
	}
	if len(addrs) == 0 {
		return perr.New(perr.SSRFBlocked, "hostname "+hostname+" resolved to no addresses")
	}
	for _, a := range addrs {
		if isBlockedIP(a.IP) {
			return perr.New(perr.SSRFBlocked, "hostname "+hostname+" resolves to blocked address "+a.IP.String())
		}
	}
	return nil
}

// ValidateDomainAllowed checks that raw's hostname exactly matches, or is a
// dot-separated subdomain of, at least one entry in allowedDomains. An empty
// allowlist disables the check (matches every domain).
func ValidateDomainAllowed(raw string, allowedDomains []string) error {
	if len(allowedDomains) == 0 {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return perr.New(perr.SSRFBlocked, "could not parse URL: "+err.Error())
	}
	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return perr.New(perr.SSRFBlocked, "URL must have a hostname")
	}
	for _, allowed := range allowedDomains {
		allowedLower := strings.ToLower(allowed)
		if hostname == allowedLower || strings.HasSuffix(hostname, "."+allowedLower) {
			return nil
		}
	}
	return perr.New(perr.SSRFBlocked, "domain "+hostname+" not in allowlist")
}

// normalizeIPLiteral parses host as an IP address, accepting the plain
// dotted/colon forms plus a bare decimal IPv4 literal (e.g. "2130706433" for
// 127.0.0.1), a form real browsers and naive parsers both accept and which
// would otherwise slip an IP literal past a purely-syntactic allowlist check.
func normalizeIPLiteral(host string) net.IP {
	if ip := net.ParseIP(host); ip != nil {
		return ip
	}
	if n, err := strconv.ParseUint(host, 10, 32); err == nil {
		b := [4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
		return net.IPv4(b[0], b[1], b[2], b[3])
	}
	if n, err := strconv.ParseUint(host, 0, 32); err == nil && (strings.HasPrefix(host, "0x") || strings.HasPrefix(host, "0X") || (len(host) > 1 && host[0] == '0')) {
		b := [4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
		return net.IPv4(b[0], b[1], b[2], b[3])
	}
	return nil
}

// isBlockedIP reports whether ip is private, loopback, link-local, reserved,
// unspecified, or multicast in either its IPv4 or (IPv4-mapped or native)
// IPv6 form.
func isBlockedIP(ip net.IP) bool {
	if ip == nil {
		return true
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, block := range reservedV4Blocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// reservedV4Blocks lists IANA special-purpose IPv4 ranges not already
// covered by net.IP's Is* predicates (0.0.0.0/8, 100.64.0.0/10 CGNAT,
// 192.0.0.0/24, 192.0.2.0/24 TEST-NET-1, 198.18.0.0/15 benchmarking,
// 198.51.100.0/24 TEST-NET-2, 203.0.113.0/24 TEST-NET-3, 240.0.0.0/4 + the
// broadcast address).
var reservedV4Blocks = mustParseCIDRs(
	"0.0.0.0/8",
	"100.64.0.0/10",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
	"255.255.255.255/32",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("ssrf: invalid reserved CIDR " + c + ": " + err.Error())
		}
		out = append(out, n)
	}
	return out
}

package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

var dnsTimeout = 3 * time.Second

// ClassifyDNS buckets a hostname for failure diagnostics:
// "RESOLVES" | "NXDOMAIN" | "NO_A_RECORD" | "SERVFAIL_or_TIMEOUT" | "INVALID_NAME".
// Used only to enrich probe-failure logs; the stored result keeps the raw
// transport error.
func ClassifyDNS(ctx context.Context, host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.Contains(host, "://") {
		return "INVALID_NAME"
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	r := &net.Resolver{} // OS resolver

	ips, err := r.LookupIP(ctx, "ip", host)
	if err == nil && len(ips) > 0 {
		return "RESOLVES"
	}

	var de *net.DNSError
	if errors.As(err, &de) && (de.IsTemporary || de.Timeout()) {
		return "SERVFAIL_or_TIMEOUT"
	}

	// Zone exists but has no address records vs. no zone at all.
	if ns, nsErr := r.LookupNS(ctx, host); nsErr == nil && len(ns) > 0 {
		return "NO_A_RECORD"
	}
	return "NXDOMAIN"
}

package adb

import (
	"context"
	"fmt"

	"github.com/grandcat/zeroconf"
)

// pairingService is announced by Android once the phone scans a
// wireless-debugging pairing QR code.
const pairingService = "_adb-tls-pairing._tcp"

// DiscoverPairing browses mDNS for the phone's pairing endpoint and returns
// the first host:port found. It blocks until a service shows up or ctx ends,
// so callers are expected to pass a deadline.
func DiscoverPairing(ctx context.Context) (string, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", fmt.Errorf("mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 8)
	if err := resolver.Browse(ctx, pairingService, "local.", entries); err != nil {
		return "", fmt.Errorf("mdns browse: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("no pairing service found: %w", ctx.Err())
		case entry := <-entries:
			if entry == nil {
				continue
			}
			if hp, ok := endpoint(entry); ok {
				return hp, nil
			}
		}
	}
}

func endpoint(entry *zeroconf.ServiceEntry) (string, bool) {
	if len(entry.AddrIPv4) > 0 {
		return fmt.Sprintf("%s:%d", entry.AddrIPv4[0], entry.Port), true
	}
	if len(entry.AddrIPv6) > 0 {
		return fmt.Sprintf("[%s]:%d", entry.AddrIPv6[0], entry.Port), true
	}
	return "", false
}

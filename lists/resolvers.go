// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package lists

import (
	"context"
	"fmt"
	"net"
	"net/http"
)

// DefaultPublicResolversURL points to a regularly updated list of public DNS
// resolvers, one IP address per line.
const DefaultPublicResolversURL = "https://public-dns.info/nameservers.txt"

// FetchResolvers downloads a list of DNS resolver addresses from the specified
// URL, using the specified HTTP client (or http.DefaultClient if nil). Only
// valid IP address literals make it into the returned list, duplicates
// removed.
func FetchResolvers(ctx context.Context, client *http.Client, url string) ([]string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch resolvers: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch resolvers: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot fetch resolvers from %s: %s", url, resp.Status)
	}
	lines, err := FromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch resolvers from %s: %w", url, err)
	}
	addrs := make([]string, 0, len(lines))
	for _, line := range lines {
		if net.ParseIP(line) == nil {
			continue
		}
		addrs = append(addrs, line)
	}
	return Dedup(addrs), nil
}

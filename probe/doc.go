/*
Package probe implements an ICMP(v4/v6)-based reachability check for DNS
resolvers, so that knocking doesn't waste its slots on resolvers that are long
gone.

[Prober] objects check resolver addresses concurrently, with a maximum
goroutine limit:

	           +---+
	[]string-->| P +-->[]string (reachable)
	           +---+

An address is considered reachable if the percentage of received ping replies
reaches or crosses the Prober's threshold. This allows for some legroom with
lossy networks.

⚠ Privileged ICMP pings require either root or CAP_NET_RAW. Use [AsUnprivileged]
for UDP-based “pings” instead, which on Linux need the ping group range sysctl
to include the caller's group.

# Acknowledgements

Under its hood, [Prober] leverages [gammazero/workerpool] as the limiting
goroutine pool and [go-ping/ping] for the pinging.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[go-ping/ping]: https://github.com/go-ping/ping
*/
package probe

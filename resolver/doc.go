/*
Package resolver implements the DNS resolver capability used for knocking: a
single DNS query of a given record type, sent to an explicitly specified
resolver (“nameserver”) and bounded by a per-query timeout.

Usage

	res := resolver.New(resolver.WithNetwork("udp"))
	err := res.Query(ctx, "example.org", types.A, "8.8.8.8", 3*time.Second)

Knockers don't care about the answers, so [Client.Query] only tells whether a
query succeeded. Responses with an rcode other than NOERROR are reported as
[RcodeError].

# Acknowledgements

Under its hood, [Client] leverages [miekg/dns] for sending queries.

[miekg/dns]: https://github.com/miekg/dns
*/
package resolver

/*
Package source implements the work source feeding the knock dispatcher: it
produces [types.LookupRequest] values from the cartesian product of domains and
resolvers, in domain-major order.

A [Source] operates in one of two modes:

  - single-pass: the product is produced exactly once, then [Source.Next]
    signals the end of the sequence.
  - looping: when noise is enabled, the product is produced over and over again,
    each request querying for a freshly synthesized noise name below the
    domain. A looping source never ends on its own; stop pulling from it when
    it's time to call it a day.

When multiple record types are configured, each request gets a record type
picked uniformly at random ([RandomPerRequest]). Alternatively, the
[FixedPerDomain] policy picks a random record type once per domain and then
sticks to it for all requests of that domain.

A Source is not safe for concurrent use; it is meant to be pulled from by a
single dispatcher loop.
*/
package source

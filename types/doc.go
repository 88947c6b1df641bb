/*
Package types defines pdknockr's information model, which is rather small: a
[LookupRequest] describes a single “knock”, that is, a single DNS query of a
particular [RecordType] for a target name, sent to a specific resolver. The
result of a knock is an [Outcome], and each knock attempt is reported as an
[Event].

# Immutability

LookupRequest and Event are plain value types. They get passed around between
the work source, the dispatcher, and the knock workers, so they must never be
modified after creation; pass them by value and all is fine.

# Errors

Configuration problems are reported as [ConfigError], while missing input
files are reported as [NotFoundError]. Use [errors.As] to detect them.
*/
package types

/*
Package knock implements DNS “knocking”: firing off DNS queries for the sake of
them leaving the wire, not for their answers.

A [Knocker] executes single lookup requests through a [resolver.Resolver],
reporting each attempt as a [types.Event] to its [EventSink]s. Knockers never
fail: any lookup error just ends up as a “failed” event.

A [Dispatcher] pulls lookup requests from a [Source] and executes them
concurrently, with the number of knocks in flight never exceeding the
dispatcher's size. New requests are admitted only after a slot became free,
with whichever in-flight knock finishes first freeing its slot.

	         +--------+    +------------+    +---------+
	Source-->| Next() +--->| Dispatcher +--->| Knocker +-->EventSink
	         +--------+    +------------+    +---------+

When the source runs dry, Dispatch waits for all in-flight knocks to finish.
When the context gets cancelled instead, Dispatch stops pulling from the source
and also waits for all in-flight knocks to finish; these knocks are never
aborted, but they are bounded by their per-query timeouts.

# Acknowledgements

Under its hood, [Dispatcher] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package knock

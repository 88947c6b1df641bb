/*
Package journal keeps a persistent record of all knocks of a pdknockr run, one
JSON line per knock. By default, each run gets its own journal file named after
the time the run started, such as "pdk_2023-06-01_13-37-00.log".

A [Journal] is a [knock.EventSink], so just pass it to [knock.NewKnocker].
*/
package journal

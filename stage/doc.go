// Package stage
// Author: momentics <momentics@gmail.com>
//
// Producer/consumer staging over a fixed-capacity ring.
//
// A Stage pulls elements from a Source on a producer goroutine, parks them in
// a core/concurrency.SPSC ring and hands them to a Sink on a consumer
// goroutine. The ring never grows: when it is full the producer either drops
// the element (PolicyDrop) or waits and retries (PolicyWait); when it is
// empty the consumer waits on an idle limiter. Both reactions live here,
// not in the ring, which only reports overrun and underrun.
package stage

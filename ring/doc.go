// Package ring
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity FIFO ring buffer for single-owner staging of data between an
// input source and a slower consumer.
//
// A Buffer allocates its storage once in New and never grows. Push on a full
// buffer fails with ErrBufferOverrun and Pop on an empty buffer fails with
// ErrBufferUnderrun; in both cases the buffer is left untouched.
//
// Buffer is not safe for concurrent use. For one producer and one consumer
// goroutine use core/concurrency.SPSC.
package ring

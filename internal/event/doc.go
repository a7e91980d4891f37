// Package event provides the synchronous publish/subscribe bus the
// input engine delivers its output through.
//
// Delivery is deliberately synchronous and ordered: handlers run on
// the publishing goroutine, in subscription order, after the engine
// has finished mutating state for the transition being delivered.
// Consumers that need async handoff wrap their handler around a
// channel send. A panicking handler is recovered and counted so one
// bad subscriber cannot take down the input pipeline.
package event

// Package engine composes the input pipeline behind one façade.
//
// An Engine owns a tracker (canonical pressed state), a sequence
// matcher (chord/combo/hold registry), a hold progress engine
// (per-frame animation state), and a synchronous event bus. The host
// feeds it four ingress calls:
//
//	Down(code, at, raw)  raw platform key press
//	Up(code, at, raw)    raw platform key release
//	Tick(at)             frame clock, while holds are charging
//	Recover(at)          focus or visibility loss
//
// All timestamps are caller-supplied, so the engine is deterministic
// and tests drive it with synthetic clocks. State mutates under the
// engine lock; bus publishing happens after the lock is released, so
// handlers may call back into queries without deadlocking.
//
// Engines are independent instances with an explicit lifecycle:
// create, feed events and ticks, Close. Nothing is process-global.
package engine

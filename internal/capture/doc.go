// Package capture adapts platform input sources to the engine's
// ingress surface.
//
// Sources translate their platform's key events into DOM-style key
// codes and feed them to a Sink together with wall-clock timestamps
// and the platform's modifier snapshot. Two sources are provided: a
// terminal source built on tcell, and a Linux evdev source that reads
// raw keyboard devices and therefore sees real key releases.
package capture

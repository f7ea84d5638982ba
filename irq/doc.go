// Package irq implements the two fixed interrupt dispatch entry points
// of the runtime: a minimal acknowledge-only handler, and a nested
// handler that re-enables interrupts around a single user callback so a
// higher-priority source can preempt it. The entry points are reachable
// only through exception vector installation, never as ordinary calls.
package irq

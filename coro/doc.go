// Package coro implements the cooperative coroutine engine of the
// runtime: a single suspendable execution unit per context, switched by
// explicit resume and yield with no implicit preemption and no
// allocation by the engine.
//
// The context packs a 31-bit word-aligned stack pointer and a joined
// flag into one word, the exact layout resume and yield consume on the
// target. The stack switch itself is abstracted behind a single
// switch-stack-and-jump primitive, carried here by a parked goroutine;
// strict alternation between caller and coroutine is enforced by
// unbuffered handoff, so exactly one of the two runs at any instant.
package coro

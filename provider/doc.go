// Package provider implements the multi-tenant dispatch layer of kvgate.
//
// A single Provider instance serves an arbitrary number of actors. Each
// actor is bound to its own backing-store handle via a Configure call issued
// by the system actor; all subsequent operations by that actor run against
// its own handle, fully isolated from every other actor.
//
// Dispatch parses the operation name into an opcode once at the boundary and
// routes through an exhaustive switch. Failures are reported as typed
// *Error values classified as configuration, protocol or store errors.
package provider

// Package protocol owns the LWCP wire contract and parsing primitives.
//
// Ownership boundary:
// - value, object and message model
// - value and message grammar (parse + render)
// - stream decoding on top of frame span extraction
//
// Nothing in this package logs or prints. Every condition is returned to
// the caller as an error or carried in the parsed data.
package protocol

// Package stream drives the LWCP decoder from an io.Reader and writes
// messages to an io.Writer.
//
// Ownership boundary:
// - read chunking and end-of-input handling
// - logging and metrics for dropped or damaged messages
//
// The transport that supplies the bytes is out of scope; anything that
// satisfies io.Reader/io.Writer will do.
package stream

// Package frame abstracts how complete protocol units are cut out of a
// connection's byte stream.
//
// # Overview
//
// The connection handler is written against the Codec interface so the wire
// format is a plug-in, not a hard-coded assumption. A Codec binds a Decoder
// and an Encoder to one connection's buffered reader and writer; the
// Decoder blocks until one complete Frame is available, the Encoder writes
// one dispatch.Response back in the protocol's own representation.
//
// Two codecs ship with the module:
//
//   - httpwire.Codec: the minimal HTTP/1.1 surface the deployed service
//     speaks.
//   - LineCodec (this package): newline-delimited text, used by the core's
//     own tests and as the simplest possible reference implementation.
//
// # Error contract
//
// Decode returns io.EOF on a clean close before any frame bytes, a
// *DecodeError for malformed or oversized input (the connection handler
// reports it and closes only that connection), and other errors for
// transport failures.
package frame

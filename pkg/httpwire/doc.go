// Package httpwire implements the service's wire protocol: a deliberately
// minimal HTTP/1.1 surface.
//
// # Scope
//
// The codec frames exactly what the deployed service needs and nothing
// more: a request line, MIME headers and an optional Content-Length body
// bounded by the configured frame limit. Chunked transfer encoding is
// refused with 501. Keep-alive is the default; "Connection: close" and
// HTTP/1.0 without keep-alive close the connection after the response.
//
// The decoder publishes the request line fields through frame metadata
// (MetaMethod, MetaTarget, MetaContentType, ...) so the dispatcher never
// parses bytes itself. The encoder maps dispatch error kinds and codes to
// status codes; success is always 200.
//
// The full net/http server is intentionally not used on the service port:
// the connection loop, idle deadline and drain behavior of the core must
// stay explicit, and the codec is a plug-in behind frame.Codec like any
// other.
package httpwire

// Package qr implements the request handling logic of the service: turning
// text into QR code images.
//
// # Routes
//
//   - GET / serves an inline HTML form.
//   - POST / reads the text from a form-urlencoded body (field "input") or
//     a text/plain body and responds with the rendered PNG.
//   - GET /<anything> renders the request target itself (leading slash
//     stripped, query preserved).
//   - Any other method is refused with method_not_allowed.
//
// Images are grayscale PNGs rendered at a configurable minimum edge length
// (default 1000 pixels). Text that cannot fit a QR code is an internal
// error, reported as such and logged.
//
// The dispatcher is stateless apart from its configuration and safe for
// concurrent use from any number of connection handlers.
package qr

// Package server assembles the service from its parts: configuration,
// logging, metrics, the request log, the QR dispatcher and the TCP core.
// It owns the process lifecycle: Run blocks until the context is
// cancelled, then drains and reports whether the shutdown was clean or
// had to be forced.
package server

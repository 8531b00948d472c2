// Qqr is a QR code rendering service.
//
// It serves a single TCP port: GET / returns an HTML input form, POST /
// renders the submitted text as a PNG QR code, and GET on any other path
// renders the path itself.
//
// Usage:
//
//	# Start with built-in defaults (listens on 0.0.0.0:8000)
//	qqr
//
//	# Start with a configuration file
//	qqr run --config /etc/qqr/config.yaml
//
//	# Validate a configuration file
//	qqr validate --config /etc/qqr/config.yaml
//
//	# Show version information
//	qqr version
package main

func main() {
	Execute()
}

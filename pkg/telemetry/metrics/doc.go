// Package metrics collects Prometheus metrics for the service core.
//
// # Metrics
//
//   - qqr_connections_accepted_total: connections the listener handed off
//   - qqr_connections_rejected_total: connections refused by the limiter
//   - qqr_connections_active: currently open connections
//   - qqr_requests_total{outcome}: dispatched requests by outcome
//     (ok, invalid, internal, unavailable)
//   - qqr_request_duration_seconds: dispatch latency histogram
//   - qqr_response_bytes: response payload size histogram
//   - qqr_frame_errors_total: malformed or over-limit frames
//
// # Exposition
//
// Collector.Handler returns a promhttp handler for the optional admin
// listener. The service port itself never serves metrics; the admin
// listener is disabled by default so the deployed single-port contract
// holds.
//
// All record methods are safe on a nil *Collector, so components never need
// to guard their instrumentation.
package metrics

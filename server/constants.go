package server

import "time"

// HTTP Server Default Timeouts
//
// These constants are used when the configuration leaves a timeout at zero.

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Forwarded requests must complete within it, retries included.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultShutdownTimeout is the maximum time to wait for graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

const (
	// HeaderXResponseTime carries the server-side processing time.
	HeaderXResponseTime = "X-Response-Time"

	// DefaultBodyLimit bounds inbound bodies, uploads included.
	DefaultBodyLimit = "32M"
)

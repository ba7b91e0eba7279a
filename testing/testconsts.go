package testing

import "time"

// Logger Constants
// These constants define common logger configurations used across test files.
const (
	// TestLoggerLevelDebug is the debug log level used in most tests
	TestLoggerLevelDebug = "debug"
	// TestLoggerLevelError is the error log level for tests requiring minimal output
	TestLoggerLevelError = "error"
	// TestLoggerLevelDisabled completely disables logging in tests
	TestLoggerLevelDisabled = "disabled"
)

// Request Constants
// Common URLs, paths and header values used by builder and server tests.
const (
	TestServiceName  = "test-service"
	TestBaseURL      = "https://api.example.com/"
	TestUsersPath    = "api/users"
	TestUploadPath   = "upload"
	TestRequestID    = "req-123"
	TestBearerToken  = "test-token"
	TestTenantHeader = "X-Tenant"
	TestTenantAcme   = "acme"
)

// Content Type Constants
const (
	TestContentTypeJSON      = "application/json"
	TestContentTypeForm      = "application/x-www-form-urlencoded"
	TestContentTypeMultipart = "multipart/form-data"
)

// Time Duration Constants
// Common time durations used in test synchronization and timeouts.
const (
	// TestShortDelay is a short delay for goroutine synchronization (100ms)
	TestShortDelay = 100 * time.Millisecond
	// TestEventuallyTimeout is the timeout for require.Eventually assertions (500ms)
	TestEventuallyTimeout = 500 * time.Millisecond
	// TestEventuallyTick is the polling interval for require.Eventually (50ms)
	TestEventuallyTick = 50 * time.Millisecond
)

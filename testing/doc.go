// Package testing provides testing utilities for code built on httpkit.
//
// # Mocks
//
// The mocks subpackage provides a testify-based mock of http.Transport, so
// builders can be exercised without a network:
//
//	transport := &mocks.MockTransport{}
//	transport.ExpectStatus(200, `{"ok":true}`)
//	resp, err := http.NewBuilder(log, transport).Get(ctx, "https://api.example.com/")
//
// # Fixtures
//
// The fixtures subpackage provides pre-configured transports for common
// scenarios: a static response, a transport that always fails, one that
// fails a fixed number of times before answering, and a recorder that
// captures every attempt.
//
// # Usage
//
// Import the specific subpackages you need:
//
//	import (
//		"github.com/gaborage/httpkit/testing/mocks"
//		"github.com/gaborage/httpkit/testing/fixtures"
//	)
package testing

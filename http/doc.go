// Package http builds and executes outbound HTTP requests.
//
// A Builder accumulates per-request configuration through chained setters
// and executes it through an injected Transport:
//
//	resp, err := http.NewBuilder(log, transport).
//		WithBaseURL("https://api.example.com/").
//		WithToken(token).
//		WithQuery(url.Values{"page": {"2"}}).
//		WithRetries(2).
//		Get(ctx, "users")
//
// Retries
//   - Controlled via Builder.WithRetries(n): at most n+1 attempts are made.
//   - Every failed attempt is retried: transport errors (connection, TLS,
//     timeout) and, while error handling is enabled, any status >= 400.
//     4xx responses are retried exactly like 5xx.
//   - The pause between attempts is fixed (one second by default, see
//     WithRetryDelay); there is no backoff growth and no jitter.
//
// Outcomes
//   - Each attempt is classified into an Outcome: success, passthrough,
//     domain error or transport error.
//   - With WithoutErrorHandling, 4xx/5xx responses are returned as plain
//     responses and only transport errors are retried or raised.
//   - Errors surfacing from Send are *TransportError, *DomainError or,
//     from Forward, *UnsupportedMethodError.
//
// Forwarding
//   - Builder.Forward replays an InboundRequest against another host,
//     re-encoding its input as JSON or multipart depending on the inbound
//     content type.
package http

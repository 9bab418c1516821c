// Package client contains the pdfdesk transport layer.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     every backend operation: List, Update, Delete, Upload, Summarize, Ask.
//  2. A concrete REST implementation (see HTTPClient) over net/http, with an
//     OpenTelemetry-instrumented transport and an X-Request-ID per call.
//
// # Error Handling
//
// Non-2xx responses become *StatusError, which matches ErrUnexpectedStatus
// (and ErrNotFound for 404) with errors.Is. Network failures wrap
// ErrUnavailable. Nothing is retried.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; a configured request timeout is
// applied on top of the caller's context.
package client

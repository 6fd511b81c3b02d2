// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package middleware provides HTTP middleware shared by the API surface.

Key Components:

  - Compression: Gzip compression for responses >1KB
  - Prometheus Metrics: HTTP request/response instrumentation

Both components wrap http.HandlerFunc directly; the api package adapts
them into the chi middleware chain.

Usage Example - Compression:

	http.HandleFunc("/api/v1/data",
	    middleware.Compression(handler),
	)

	// Responses >1KB are automatically compressed when the client
	// sends Accept-Encoding: gzip.

Compression Details:

The compression middleware:
  - Only compresses responses >1KB
  - Supports gzip encoding (Accept-Encoding: gzip)
  - Applies to text/json/javascript/xml mime types
  - Automatically sets Content-Encoding header
  - Flushes compressed data for streaming responses

Thread Safety:

All middleware components are thread-safe: compression uses per-request
gzip writers and Prometheus metrics use atomic operations.

See Also:

  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Timeouts

WithTimeout puts a deadline on the request context. Long allocations notice
it between rounds and give up:

	middleware.WithTimeout(10*time.Second, handler.Allocate)

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with the Content-Type header.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
	middleware.CodedErrorResponse(w, http.StatusBadRequest, "DuplicateProject", err.Error())

Parse JSON request bodies, capped at maxBytes:

	var req models.AllocateRequest
	if err := middleware.ParseJSONBody(w, r, &req, maxBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware

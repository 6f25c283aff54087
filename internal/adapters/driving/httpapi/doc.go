// Package httpapi exposes the chat service over HTTP.
//
// Endpoints:
//
//	POST /chat   - one conversational turn for a session
//	GET  /health - liveness plus index load status
package httpapi

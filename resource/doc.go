// Package resource defines the five record types served by the remote API
// and a generic typed client for their CRUD endpoints.
//
// Every resource exposes the same five calls:
//
//	GET    /<path>       list (wrapped in an envelope keyed by the resource)
//	GET    /<path>/:id   one record
//	POST   /<path>       create
//	PUT    /<path>/:id   update (partial body)
//	DELETE /<path>/:id   delete
//
// Failures are returned as api errors matching api.ErrFetch.
package resource

// Package core defines the HTTP response vocabulary shared by all modules.
//
// Every handler answers with one of two JSON shapes: {"error": "..."} for
// failures and either {"message": "..."} or a plain data document for
// successes. Domain errors are translated to HTTPError values at the router
// boundary; anything unrecognized renders as a generic 500 so internals
// never leak to clients.
package core

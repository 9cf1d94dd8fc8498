// Package binder decodes HTTP request bodies into tagged request structs.
//
// Binding failures are reported through sentinel errors so the HTTP boundary
// can translate them into 400 responses with a stable JSON shape.
package binder

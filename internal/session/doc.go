// Package session is the per-device client state store.
//
// A [Store] wraps a [Backend] (SQLite through repositories.StateRepository, or the in-memory
// [MemoryBackend]) and exposes typed accessors for every document the surfaces read and write,
// so that no caller handles raw key strings. Values are JSON encoded except for the plain auth flags.
//
// [ShouldRedirect] holds the route guard rules shared by the HTTP surface and the CLI.
package session

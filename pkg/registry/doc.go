// Package registry looks plugins up in the Obsidian community plugins list.
//
// Responses are cached by key (method and URL) in a sqlite database in the
// user cache directory, fronted by an in-process LRU, and only successful
// responses are stored. Concurrent lookups from a parallel batch share a
// single in-flight request.
package registry

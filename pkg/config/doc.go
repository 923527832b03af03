// Package config loads, validates and persists the plugin config document
// (ovm.json by default):
//
//	{"plugins": [{"id": "dataview", "version": "0.5.64"}]}
//
// The top level is closed: unknown keys are rejected. Plugin entries only
// require an id; unknown entry keys are dropped. Writes are reconciled (one
// entry per id) and atomic.
package config

// Package types defines the core types and interfaces shared across ovm:
// the Vault target descriptor, the Plugin reference persisted in the config
// document, per-plugin outcomes and the per-vault TargetResult produced by
// the plugin-mutating commands.
package types

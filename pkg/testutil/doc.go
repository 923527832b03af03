// Package testutil provides utilities for testing ovm components.
//
// Key components:
//   - TestEnvironment: vaults, config document and plugin trees on an
//     in-memory or temporary filesystem, with cleanup
//   - MockInstaller: an installer that writes plugin files without network
//   - MockRegistry: a registry backed by a map of entries
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; use EnvIsolated only for code that shells out
//     or globs the real filesystem
//   - Define test data inline
package testutil

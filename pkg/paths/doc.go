// Package paths provides centralized path handling for ovm.
//
// It resolves the user-level locations the tool reads and writes, following
// the XDG Base Directory specification:
//
//   - Config document: ~/ovm.json (override with OVM_CONFIG)
//   - Settings: $XDG_CONFIG_HOME/ovm/settings.{toml,yaml,yml}
//   - Cache: $XDG_CACHE_HOME/ovm (registry HTTP cache)
//   - State: $XDG_STATE_HOME/ovm (ovm.log, run.log)
//
// It also knows the on-disk layout of an Obsidian vault:
//
//	<vault>/.obsidian/community-plugins.json
//	<vault>/.obsidian/plugins/<id>/manifest.json
//
// # Environment Variables
//
//   - OVM_CONFIG: path of the plugin config document
//   - OVM_CONFIG_DIR: override the settings directory
//   - OVM_CACHE_DIR: override the cache directory
//   - OVM_STATE_DIR: override the state directory
//   - OVM_OBSIDIAN_CONFIG: path of Obsidian's obsidian.json
package paths

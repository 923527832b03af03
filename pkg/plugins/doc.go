// Package plugins manages Obsidian plugins inside a vault: probing and
// listing installed plugins, removing them, toggling them in
// community-plugins.json, reading manifests, and installing releases from
// GitHub.
package plugins

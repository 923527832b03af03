// Package vaults discovers Obsidian vaults.
//
// A vault is any directory holding a .obsidian directory. Vaults are found
// either by glob pattern (a path is searched recursively) or, when no
// pattern is given, from the vault list in Obsidian's own obsidian.json.
package vaults

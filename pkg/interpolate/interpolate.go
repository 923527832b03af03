// Package interpolate expands {N} placeholders in run commands.
//
// {0} is the vault path and {1} the vault name. Any other index, and the
// empty placeholder {}, is left untouched.
package interpolate

import (
	"regexp"

	"github.com/arthur-debert/ovm/pkg/types"
)

var placeholder = regexp.MustCompile(`\{(\d*)\}`)

// Variable resolves one placeholder for a vault
type Variable func(types.Vault) string

// Reserved maps placeholder indices to their values
var Reserved = map[string]Variable{
	"0": func(v types.Vault) string { return v.Path },
	"1": func(v types.Vault) string { return v.Name },
}

// Command returns command with every reserved placeholder replaced
func Command(command string, vault types.Vault) string {
	return placeholder.ReplaceAllStringFunc(command, func(match string) string {
		index := placeholder.FindStringSubmatch(match)[1]
		if fn, ok := Reserved[index]; ok {
			return fn(vault)
		}
		return match
	})
}

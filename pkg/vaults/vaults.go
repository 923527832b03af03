package vaults

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// NoVaultsMessage is reported when discovery finds nothing
const NoVaultsMessage = "No vaults found!"

// Pattern returns the glob used for a user supplied path or pattern
func Pattern(pattern string) string {
	pattern = paths.ExpandHome(strings.TrimSpace(pattern))
	if strings.HasSuffix(pattern, paths.ObsidianDirName) {
		return pattern
	}
	return strings.TrimRight(pattern, `/\`) + "/**/" + paths.ObsidianDirName
}

// Find returns the vaults whose .obsidian directory matches pattern
func Find(pattern string) ([]types.Vault, error) {
	logger := logging.GetLogger("vaults")
	glob := Pattern(pattern)

	if abs, err := filepath.Abs(glob); err == nil {
		glob = abs
	}
	// doublestar patterns always use forward slashes
	glob = filepath.ToSlash(glob)

	matches, err := doublestar.FilepathGlob(glob)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrVaultDiscovery, "invalid vault pattern %q", pattern)
	}

	found := make([]types.Vault, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.IsDir() {
			continue
		}
		vault, err := types.NewVault("", filepath.Dir(match))
		if err != nil {
			continue
		}
		found = append(found, vault)
	}

	vaults := normalize(found)
	logger.Debug().Str("pattern", glob).Int("vaults", len(vaults)).Msg("Vaults matched")
	return vaults, nil
}

// obsidianConfig is the part of obsidian.json listing vaults
type obsidianConfig struct {
	Vaults map[string]struct {
		Path string `json:"path"`
	} `json:"vaults"`
}

// FromObsidianConfig returns the vaults registered in Obsidian's
// obsidian.json. Vaults whose directory no longer exists are skipped.
func FromObsidianConfig(configPath string) ([]types.Vault, error) {
	logger := logging.GetLogger("vaults").With().Str("config", configPath).Logger()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrVaultDiscovery, "Obsidian config not found at %s", configPath).
				WithDetail("path", configPath)
		}
		return nil, errors.Wrapf(err, errors.ErrVaultDiscovery, "cannot read %s", configPath)
	}

	var cfg obsidianConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrVaultDiscovery, "invalid Obsidian config %s", configPath)
	}

	found := make([]types.Vault, 0, len(cfg.Vaults))
	for id, entry := range cfg.Vaults {
		if entry.Path == "" {
			continue
		}
		if info, err := os.Stat(entry.Path); err != nil || !info.IsDir() {
			logger.Debug().Str("id", id).Str("path", entry.Path).Msg("Skipping missing vault")
			continue
		}
		vault, err := types.NewVault("", entry.Path)
		if err != nil {
			continue
		}
		found = append(found, vault)
	}

	return normalize(found), nil
}

// Load resolves vaults from pattern when it is not blank, otherwise from
// Obsidian's config. Finding no vault is an error.
func Load(pattern, obsidianConfigPath string) ([]types.Vault, error) {
	var (
		vaults []types.Vault
		err    error
	)

	if strings.TrimSpace(pattern) != "" {
		vaults, err = Find(pattern)
	} else {
		vaults, err = FromObsidianConfig(obsidianConfigPath)
	}
	if err != nil {
		return nil, err
	}

	if len(vaults) == 0 {
		return nil, errors.New(errors.ErrNoVaults, NoVaultsMessage).WithDetail("pattern", pattern)
	}
	return vaults, nil
}

// normalize sorts vaults by path and drops duplicates
func normalize(vaults []types.Vault) []types.Vault {
	sort.Slice(vaults, func(i, j int) bool { return vaults[i].Path < vaults[j].Path })

	out := vaults[:0]
	for i, v := range vaults {
		if i > 0 && v.Path == vaults[i-1].Path {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Names returns vault names sorted case-insensitively
func Names(vaults []types.Vault) []string {
	names := make([]string, 0, len(vaults))
	for _, v := range vaults {
		names = append(names, v.Name)
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })
	return names
}

package types

// LatestVersion is the version used when a plugin does not pin one
const LatestVersion = "latest"

// Plugin is a plugin reference as persisted in the config document.
// ID is the unique key; two references are equal when their ids are.
type Plugin struct {
	ID          string `json:"id" yaml:"id"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Repo        string `json:"repo,omitempty" yaml:"repo,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ResolvedVersion returns the pinned version or "latest"
func (p Plugin) ResolvedVersion() string {
	if p.Version == "" {
		return LatestVersion
	}
	return p.Version
}

// PluginIDs returns the ids of plugins in order
func PluginIDs(plugins []Plugin) []string {
	ids := make([]string, 0, len(plugins))
	for _, p := range plugins {
		ids = append(ids, p.ID)
	}
	return ids
}

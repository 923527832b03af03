package config

import "github.com/arthur-debert/ovm/pkg/types"

// Reconcile removes duplicate ids. The first occurrence keeps its position
// and the last occurrence supplies the value.
func Reconcile(plugins []types.Plugin) []types.Plugin {
	index := make(map[string]int, len(plugins))
	out := make([]types.Plugin, 0, len(plugins))

	for _, p := range plugins {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

// Upsert returns plugins with p added or replacing the entry with the same id
func Upsert(plugins []types.Plugin, p types.Plugin) []types.Plugin {
	next := make([]types.Plugin, 0, len(plugins)+1)
	next = append(next, plugins...)
	return Reconcile(append(next, p))
}

// Without returns plugins minus the entry with id
func Without(plugins []types.Plugin, id string) []types.Plugin {
	out := make([]types.Plugin, 0, len(plugins))
	for _, p := range plugins {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return Reconcile(out)
}

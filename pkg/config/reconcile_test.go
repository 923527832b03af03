package config

import (
	"testing"

	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func pluginGen() *rapid.Generator[types.Plugin] {
	return rapid.Custom(func(t *rapid.T) types.Plugin {
		return types.Plugin{
			ID:      rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}).Draw(t, "id"),
			Version: rapid.SampledFrom([]string{"", "latest", "1.0.0", "2.1.0"}).Draw(t, "version"),
		}
	})
}

func TestReconcile(t *testing.T) {
	got := Reconcile([]types.Plugin{
		{ID: "a", Version: "1"},
		{ID: "b"},
		{ID: "a", Version: "2"},
	})
	assert.Equal(t, []types.Plugin{{ID: "a", Version: "2"}, {ID: "b"}}, got)
	assert.Empty(t, Reconcile(nil))
}

func TestUpsertAndWithout(t *testing.T) {
	base := []types.Plugin{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, []types.Plugin{{ID: "a"}, {ID: "b"}, {ID: "c"}}, Upsert(base, types.Plugin{ID: "c"}))
	assert.Equal(t, []types.Plugin{{ID: "a", Version: "1"}, {ID: "b"}}, Upsert(base, types.Plugin{ID: "a", Version: "1"}))
	assert.Equal(t, []types.Plugin{{ID: "b"}}, Without(base, "a"))
	assert.Equal(t, base, Without(base, "missing"))
	assert.Equal(t, []types.Plugin{{ID: "a"}, {ID: "b"}}, base, "inputs are not modified")
}

func TestReconcileProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		plugins := rapid.SliceOf(pluginGen()).Draw(t, "plugins")
		out := Reconcile(plugins)

		seen := map[string]bool{}
		for _, p := range out {
			if seen[p.ID] {
				t.Fatalf("duplicate id %q in %v", p.ID, out)
			}
			seen[p.ID] = true
		}

		for _, p := range plugins {
			if !seen[p.ID] {
				t.Fatalf("id %q lost", p.ID)
			}
		}

		// Last write wins
		last := map[string]types.Plugin{}
		for _, p := range plugins {
			last[p.ID] = p
		}
		for _, p := range out {
			if last[p.ID] != p {
				t.Fatalf("entry %v is not the last write %v", p, last[p.ID])
			}
		}

		// Idempotent and deterministic
		again := Reconcile(out)
		if len(again) != len(out) {
			t.Fatalf("reconcile not idempotent: %v vs %v", again, out)
		}
		for i := range out {
			if again[i] != out[i] {
				t.Fatalf("reconcile not idempotent at %d", i)
			}
		}
	})
}

func TestMarshalDeterministicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		plugins := rapid.SliceOf(pluginGen()).Draw(t, "plugins")
		a, err := Marshal(&Document{Plugins: plugins})
		if err != nil {
			t.Fatal(err)
		}
		b, err := Marshal(&Document{Plugins: Reconcile(plugins)})
		if err != nil {
			t.Fatal(err)
		}
		if string(a) != string(b) {
			t.Fatalf("serialization differs:\n%s\n%s", a, b)
		}
	})
}

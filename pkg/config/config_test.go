package config

import (
	"sync"
	"testing"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/filesystem"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configPath = "/home/user/ovm.json"

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode errors.ErrorCode
		wantIDs  []string
	}{
		{name: "empty object defaults plugins", content: `{}`, wantIDs: []string{}},
		{name: "plugins list", content: `{"plugins":[{"id":"a","version":"1.0.0"},{"id":"b"}]}`, wantIDs: []string{"a", "b"}},
		{name: "unknown plugin keys dropped", content: `{"plugins":[{"id":"a","extra":true}]}`, wantIDs: []string{"a"}},
		{name: "not json", content: `{plugins:`, wantCode: errors.ErrConfigInvalidFormat},
		{name: "empty file", content: ``, wantCode: errors.ErrConfigInvalidFormat},
		{name: "unknown top level key", content: `{"plugins":[],"extra":1}`, wantCode: errors.ErrConfigSchemaInvalid},
		{name: "plugins not an array", content: `{"plugins":{}}`, wantCode: errors.ErrConfigSchemaInvalid},
		{name: "plugin missing id", content: `{"plugins":[{"version":"1.0.0"}]}`, wantCode: errors.ErrConfigSchemaInvalid},
		{name: "id not a string", content: `{"plugins":[{"id":5}]}`, wantCode: errors.ErrConfigSchemaInvalid},
		{name: "top level array", content: `[]`, wantCode: errors.ErrConfigSchemaInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.content))
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, types.PluginIDs(doc.Plugins))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filesystem.NewMemory(), configPath)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
		assert.Equal(t, configPath, errors.GetErrorDetails(err)["path"])
	})

	t.Run("unreadable path", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Load(filesystem.NewOS(), dir)
		require.Error(t, err)
		assert.Equal(t, errors.ErrConfigRead, errors.GetErrorCode(err))
		assert.Equal(t, dir, errors.GetErrorDetails(err)["path"])
	})

	t.Run("valid file", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, fsys.MkdirAll("/home/user", 0755))
		require.NoError(t, fsys.WriteFile(configPath, []byte(`{"plugins":[{"id":"dataview"}]}`), 0644))

		doc, err := Load(fsys, configPath)
		require.NoError(t, err)
		assert.Equal(t, []types.Plugin{{ID: "dataview"}}, doc.Plugins)
	})

	t.Run("invalid file carries path", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, fsys.MkdirAll("/home/user", 0755))
		require.NoError(t, fsys.WriteFile(configPath, []byte(`{"nope":1}`), 0644))

		_, err := Load(fsys, configPath)
		require.Error(t, err)
		assert.Equal(t, errors.ErrConfigSchemaInvalid, errors.GetErrorCode(err))
		assert.Equal(t, configPath, errors.GetErrorDetails(err)["path"])
	})
}

func TestWriteDeterministic(t *testing.T) {
	fsys := filesystem.NewMemory()
	doc := &Document{Plugins: []types.Plugin{
		{ID: "b", Version: "1.0.0"},
		{ID: "a", Repo: "owner/a"},
		{ID: "b", Version: "2.0.0"},
	}}

	require.NoError(t, Write(fsys, doc, configPath))
	first, err := fsys.ReadFile(configPath)
	require.NoError(t, err)

	require.NoError(t, Write(fsys, doc, configPath))
	second, err := fsys.ReadFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, `{
  "plugins": [
    {
      "id": "b",
      "version": "2.0.0"
    },
    {
      "id": "a",
      "repo": "owner/a"
    }
  ]
}
`, string(first))

	loaded, err := Load(fsys, configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, types.PluginIDs(loaded.Plugins))
}

func TestCreateDefault(t *testing.T) {
	t.Run("creates empty document", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		doc, err := CreateDefault(fsys, configPath, nil)
		require.NoError(t, err)
		assert.Empty(t, doc.Plugins)

		data, err := fsys.ReadFile(configPath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"plugins":[]}`, string(data))
	})

	t.Run("writes seed", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		seed := &Document{Plugins: []types.Plugin{{ID: "x"}, {ID: "x", Version: "1.0.0"}}}
		doc, err := CreateDefault(fsys, configPath, seed)
		require.NoError(t, err)
		assert.Equal(t, []types.Plugin{{ID: "x", Version: "1.0.0"}}, doc.Plugins)
		assert.Len(t, seed.Plugins, 2, "seed is not modified")
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, fsys.MkdirAll("/home/user", 0755))
		require.NoError(t, fsys.WriteFile(configPath, []byte(`{"plugins":[{"id":"keep"}]}`), 0644))

		_, err := CreateDefault(fsys, configPath, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigExists))

		data, err := fsys.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "keep")
	})
}

func TestStore(t *testing.T) {
	fsys := filesystem.NewMemory()
	_, err := CreateDefault(fsys, configPath, &Document{Plugins: []types.Plugin{{ID: "p1"}, {ID: "p2"}}})
	require.NoError(t, err)

	store, err := OpenStore(fsys, configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, store.Path())

	require.NoError(t, store.Upsert(types.Plugin{ID: "p2", Version: "1.2.3"}))
	require.NoError(t, store.Upsert(types.Plugin{ID: "p3"}))
	require.NoError(t, store.Remove("p1"))

	p, ok := store.Find("p2")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", p.Version)

	loaded, err := Load(fsys, configPath)
	require.NoError(t, err)
	assert.Equal(t, []types.Plugin{{ID: "p2", Version: "1.2.3"}, {ID: "p3"}}, loaded.Plugins)

	snapshot := store.Snapshot()
	snapshot.Plugins[0].ID = "mutated"
	assert.Equal(t, []string{"p2", "p3"}, types.PluginIDs(store.Plugins()))
}

func TestStoreConcurrentUpserts(t *testing.T) {
	fsys := filesystem.NewMemory()
	store := NewStore(fsys, configPath, nil)

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, store.Upsert(types.Plugin{ID: id}))
		}(id)
	}
	wg.Wait()

	loaded, err := Load(fsys, configPath)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, types.PluginIDs(loaded.Plugins))
}

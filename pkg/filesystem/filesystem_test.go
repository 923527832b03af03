package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations(t *testing.T) map[string]struct {
	fs   types.FS
	root string
} {
	return map[string]struct {
		fs   types.FS
		root string
	}{
		"os":     {NewOS(), t.TempDir()},
		"memory": {NewMemory(), "/root"},
	}
}

func TestFSOperations(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			fsys, root := impl.fs, impl.root
			dir := filepath.Join(root, "a", "b")
			file := filepath.Join(dir, "f.txt")

			require.NoError(t, fsys.MkdirAll(dir, 0755))
			require.NoError(t, fsys.WriteFile(file, []byte("hello"), 0644))

			data, err := fsys.ReadFile(file)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(data))

			_, err = fsys.ReadFile(dir)
			assert.Error(t, err)

			entries, err := fsys.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "f.txt", entries[0].Name())

			moved := filepath.Join(dir, "g.txt")
			require.NoError(t, fsys.Rename(file, moved))
			ok, err := Exists(fsys, file)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, fsys.Remove(moved))
			require.NoError(t, fsys.RemoveAll(filepath.Join(root, "a")))
			ok, err = Exists(fsys, dir)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			target := filepath.Join(impl.root, "nested", "ovm.json")

			require.NoError(t, WriteFileAtomic(impl.fs, target, []byte(`{"plugins":[]}`), 0644))
			require.NoError(t, WriteFileAtomic(impl.fs, target, []byte(`{"plugins":[{"id":"a"}]}`), 0644))

			data, err := impl.fs.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, `{"plugins":[{"id":"a"}]}`, string(data))

			ok, err := Exists(impl.fs, target+".tmp")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestDirSize(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/p/sub", 0755))
	require.NoError(t, fsys.WriteFile("/p/main.js", make([]byte, 100), 0644))
	require.NoError(t, fsys.WriteFile("/p/sub/styles.css", make([]byte, 24), 0644))

	size, err := DirSize(fsys, "/p")
	require.NoError(t, err)
	assert.Equal(t, int64(124), size)

	_, err = DirSize(fsys, "/missing")
	assert.Error(t, err)
}

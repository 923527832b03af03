package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/ovm/pkg/types"
)

// Exists reports whether path exists on fsys
func Exists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes data to a temporary sibling of name and renames it
// into place, creating parent directories as needed.
func WriteFileAtomic(fsys types.FS, name string, data []byte, perm fs.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	tmp := name + ".tmp"
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

// DirSize returns the total size in bytes of the regular files under root
func DirSize(fsys types.FS, root string) (int64, error) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			size, err := DirSize(fsys, path)
			if err != nil {
				return 0, err
			}
			total += size
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

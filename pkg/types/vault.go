package types

import (
	"path/filepath"

	"github.com/arthur-debert/ovm/pkg/errors"
)

// Vault is the immutable descriptor of one target directory.
// Its identity is the normalized absolute Path.
type Vault struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// NewVault builds a Vault with an absolute, cleaned path. An empty name
// defaults to the base name of the path.
func NewVault(name, path string) (Vault, error) {
	if path == "" {
		return Vault{}, errors.New(errors.ErrInvalidInput, "vault path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Vault{}, errors.Wrapf(err, errors.ErrInvalidInput, "invalid vault path %s", path)
	}
	abs = filepath.Clean(abs)
	if name == "" {
		name = filepath.Base(abs)
	}
	return Vault{Name: name, Path: abs}, nil
}

// ID returns the vault identity used to key batch results
func (v Vault) ID() string {
	return v.Path
}

func (v Vault) String() string {
	return v.Name + " (" + v.Path + ")"
}

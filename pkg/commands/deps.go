package commands

import (
	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/filesystem"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/arthur-debert/ovm/pkg/plugins"
	"github.com/arthur-debert/ovm/pkg/registry"
	"github.com/arthur-debert/ovm/pkg/settings"
	"github.com/arthur-debert/ovm/pkg/types"
)

// memoryCacheSize bounds the in-process registry response cache
const memoryCacheSize = 16

// Deps are the collaborators shared by commands, built from settings
type Deps struct {
	FS        types.FS
	Manager   *plugins.Manager
	Registry  *registry.Client
	Installer *plugins.GitHubInstaller
	Batch     batch.Options

	closers []func() error
}

// NewDeps wires the real filesystem, registry client and installer. A
// registry disk cache that cannot be opened is skipped with a warning.
func NewDeps(s *settings.Settings, p paths.Paths) (*Deps, error) {
	logger := logging.GetLogger("commands.deps")

	mode, err := batch.ParseMode(s.Batch.Mode)
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	manager := plugins.NewManager(fsys)
	deps := &Deps{
		FS:        fsys,
		Manager:   manager,
		Installer: plugins.NewGitHubInstaller(manager, s.GitHub.DownloadURL, s.GitHub.Timeout),
		Batch:     batch.Options{Mode: mode, MaxParallel: s.Batch.MaxParallel},
	}

	var cache registry.Cache
	if s.Registry.Cache {
		layers := registry.Layered{registry.NewMemoryCache(memoryCacheSize, s.Registry.CacheTTL)}
		disk, err := registry.OpenSQLiteCache(p.RegistryCachePath(), s.Registry.CacheTTL)
		if err != nil {
			logger.Warn().Err(err).Str("path", p.RegistryCachePath()).Msg("Registry disk cache disabled")
		} else {
			layers = append(layers, disk)
			deps.closers = append(deps.closers, disk.Close)
		}
		cache = layers
	}
	deps.Registry = registry.NewClient(s.Registry.URL, cache)

	return deps, nil
}

// Close releases resources held by the dependencies
func (d *Deps) Close() error {
	var first error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

package plugins

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/registry"
	"github.com/arthur-debert/ovm/pkg/types"
)

// DefaultDownloadURL hosts plugin releases
const DefaultDownloadURL = "https://github.com"

// Release assets of an Obsidian plugin
const (
	AssetManifest = "manifest.json"
	AssetMain     = "main.js"
	AssetStyles   = "styles.css"
)

// Installer installs plugins into vaults and probes installations
type Installer interface {
	Install(ctx context.Context, repo, version, vaultPath string) error
	IsInstalled(id, vaultPath string) (bool, error)
}

// Registry finds plugins in the community list; nil, nil means absent
type Registry interface {
	Find(ctx context.Context, id string) (*registry.Entry, error)
}

// GitHubInstaller downloads plugin release assets from GitHub
type GitHubInstaller struct {
	*Manager
	BaseURL string
	HTTP    *http.Client
}

// NewGitHubInstaller returns an installer writing through manager
func NewGitHubInstaller(manager *Manager, baseURL string, timeout time.Duration) *GitHubInstaller {
	if baseURL == "" {
		baseURL = DefaultDownloadURL
	}
	return &GitHubInstaller{
		Manager: manager,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// AssetURL returns the download URL of a release asset
func (g *GitHubInstaller) AssetURL(repo, version, asset string) string {
	if version == "" || version == types.LatestVersion {
		return fmt.Sprintf("%s/%s/releases/latest/download/%s", g.BaseURL, repo, asset)
	}
	return fmt.Sprintf("%s/%s/releases/download/%s/%s", g.BaseURL, repo, version, asset)
}

// Install downloads the release of repo at version and writes it to
// <vault>/.obsidian/plugins/<manifest id>. Nothing is written unless the
// required assets were all downloaded.
func (g *GitHubInstaller) Install(ctx context.Context, repo, version, vaultPath string) error {
	if repo == "" {
		return errors.New(errors.ErrPluginInstall, "plugin repository is empty")
	}
	if err := ValidateVersion(version); err != nil {
		return err
	}

	logger := logging.GetLogger("installer").With().
		Str("repo", repo).Str("version", version).Str("vault", vaultPath).Logger()
	done := logging.LogOperationStart(logger, "install")
	defer done()

	manifestData, err := g.download(ctx, repo, version, AssetManifest, true)
	if err != nil {
		return err
	}
	manifest, err := ParseManifest(manifestData)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPluginInstall, "bad manifest in %s", repo)
	}

	mainData, err := g.download(ctx, repo, version, AssetMain, true)
	if err != nil {
		return err
	}

	files := map[string][]byte{
		AssetManifest: manifestData,
		AssetMain:     mainData,
	}

	stylesData, err := g.download(ctx, repo, version, AssetStyles, false)
	if err != nil {
		return err
	}
	if stylesData != nil {
		files[AssetStyles] = stylesData
	}

	if err := g.WriteFiles(manifest.ID, vaultPath, files); err != nil {
		return err
	}

	logger.Info().Str("plugin", manifest.ID).Str("installed", manifest.Version).Msg("Plugin installed")
	return nil
}

// download fetches one asset. A missing optional asset returns nil, nil.
func (g *GitHubInstaller) download(ctx context.Context, repo, version, asset string, required bool) ([]byte, error) {
	url := g.AssetURL(repo, version, asset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginInstall, "cannot request %s", url)
	}

	client := g.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, registry.AsRateLimit(errors.Wrapf(err, errors.ErrPluginInstall, "cannot download %s", url))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginInstall, "cannot read %s", url)
	}

	if resp.StatusCode == http.StatusNotFound && !required {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if err := registry.CheckRateLimit(resp.StatusCode, body); err != nil {
			return nil, err
		}
		return nil, errors.Newf(errors.ErrPluginInstall, "download %s: %s", url, resp.Status).
			WithDetail("status", resp.StatusCode)
	}
	return body, nil
}

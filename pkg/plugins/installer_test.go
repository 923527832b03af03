package plugins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type releaseServer struct {
	mu     sync.Mutex
	assets map[string]string
	status int
	body   string
	paths  []string
}

func (r *releaseServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.paths = append(r.paths, req.URL.Path)
	r.mu.Unlock()
	if r.status != 0 {
		w.WriteHeader(r.status)
		_, _ = w.Write([]byte(r.body))
		return
	}
	for suffix, content := range r.assets {
		if strings.HasSuffix(req.URL.Path, "/"+suffix) {
			_, _ = w.Write([]byte(content))
			return
		}
	}
	http.NotFound(w, req)
}

func (r *releaseServer) requested() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func newInstaller(t *testing.T, rs *releaseServer) *GitHubInstaller {
	t.Helper()
	srv := httptest.NewServer(rs)
	t.Cleanup(srv.Close)
	return NewGitHubInstaller(newManager(t), srv.URL, 5*time.Second)
}

func TestAssetURL(t *testing.T) {
	g := NewGitHubInstaller(nil, "https://github.com/", time.Second)
	assert.Equal(t, "https://github.com/o/r/releases/latest/download/main.js", g.AssetURL("o/r", "latest", "main.js"))
	assert.Equal(t, "https://github.com/o/r/releases/download/1.2.3/main.js", g.AssetURL("o/r", "1.2.3", "main.js"))
}

func TestInstall(t *testing.T) {
	t.Run("installs required and optional assets", func(t *testing.T) {
		rs := &releaseServer{assets: map[string]string{
			"manifest.json": `{"id":"dataview","version":"0.5.64"}`,
			"main.js":       "main",
			"styles.css":    "css",
		}}
		g := newInstaller(t, rs)

		require.NoError(t, g.Install(context.Background(), "blacksmithgu/obsidian-dataview", "latest", vault))

		ok, err := g.IsInstalled("dataview", vault)
		require.NoError(t, err)
		assert.True(t, ok)

		css, err := g.FS.ReadFile(paths.PluginDir(vault, "dataview") + "/styles.css")
		require.NoError(t, err)
		assert.Equal(t, "css", string(css))
		assert.Contains(t, rs.requested(), "/blacksmithgu/obsidian-dataview/releases/latest/download/main.js")
	})

	t.Run("styles are optional", func(t *testing.T) {
		rs := &releaseServer{assets: map[string]string{
			"manifest.json": `{"id":"calendar","version":"1.5.10"}`,
			"main.js":       "main",
		}}
		g := newInstaller(t, rs)

		require.NoError(t, g.Install(context.Background(), "liamcain/obsidian-calendar-plugin", "1.5.10", vault))
		manifest, err := g.ReadManifest("calendar", vault)
		require.NoError(t, err)
		assert.Equal(t, "1.5.10", manifest.Version)
		assert.Contains(t, rs.requested(), "/liamcain/obsidian-calendar-plugin/releases/download/1.5.10/manifest.json")
	})

	t.Run("missing main.js installs nothing", func(t *testing.T) {
		rs := &releaseServer{assets: map[string]string{
			"manifest.json": `{"id":"broken","version":"1.0.0"}`,
		}}
		g := newInstaller(t, rs)

		err := g.Install(context.Background(), "o/broken", "latest", vault)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPluginInstall))

		ok, err := g.IsInstalled("broken", vault)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rate limited", func(t *testing.T) {
		g := newInstaller(t, &releaseServer{status: http.StatusForbidden, body: "API rate limit exceeded"})

		err := g.Install(context.Background(), "o/r", "latest", vault)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRateLimitExceeded))
	})

	t.Run("invalid version", func(t *testing.T) {
		rs := &releaseServer{}
		g := newInstaller(t, rs)

		err := g.Install(context.Background(), "o/r", "not-a-version", vault)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidVersion))
		assert.Empty(t, rs.requested())
	})

	t.Run("empty repo", func(t *testing.T) {
		g := newInstaller(t, &releaseServer{})
		assert.Error(t, g.Install(context.Background(), "", "latest", vault))
	})
}

package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPaths points every ovm directory inside a temp dir
func testPaths(t *testing.T) (paths.Paths, string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(root, "config"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(root, "cache"))
	t.Setenv(paths.EnvStateDir, filepath.Join(root, "state"))
	t.Setenv(paths.EnvConfig, filepath.Join(root, "ovm.json"))
	p, err := paths.New()
	require.NoError(t, err)
	return p, root
}

func TestLoadDefaults(t *testing.T) {
	p, root := testPaths(t)

	s, err := Load(p, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeParallel, s.Batch.Mode)
	assert.Equal(t, 0, s.Batch.MaxParallel)
	assert.Equal(t, "table", s.Output.Format)
	assert.True(t, s.Registry.Cache)
	assert.Equal(t, time.Hour, s.Registry.CacheTTL)
	assert.Equal(t, "https://github.com", s.GitHub.DownloadURL)
	assert.Equal(t, 30*time.Second, s.GitHub.Timeout)
	assert.Equal(t, DefaultShell(), s.Run.Shell)
	assert.Zero(t, s.Run.Timeout)
	assert.True(t, s.Run.LogOutput)
	assert.Equal(t, filepath.Join(root, "ovm.json"), s.ConfigPath)
	assert.Contains(t, s.Registry.URL, "community-plugins.json")
}

func TestLoadLayers(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		env      map[string]string
		override map[string]interface{}
		validate func(t *testing.T, s *Settings)
	}{
		{
			name:    "toml settings file",
			file:    "settings.toml",
			content: "[batch]\nmode = \"series\"\n[registry]\ncache_ttl = \"2d\"\n",
			validate: func(t *testing.T, s *Settings) {
				assert.Equal(t, ModeSeries, s.Batch.Mode)
				assert.Equal(t, 48*time.Hour, s.Registry.CacheTTL)
			},
		},
		{
			name:    "yaml settings file",
			file:    "settings.yaml",
			content: "output:\n  format: json\nrun:\n  shell: bash -c\n",
			validate: func(t *testing.T, s *Settings) {
				assert.Equal(t, "json", s.Output.Format)
				assert.Equal(t, "bash -c", s.Run.Shell)
			},
		},
		{
			name:    "environment overrides file",
			file:    "settings.toml",
			content: "[batch]\nmode = \"series\"\n",
			env: map[string]string{
				"OVM_BATCH__MODE":         "parallel",
				"OVM_BATCH__MAX_PARALLEL": "4",
				"OVM_RUN__LOG_OUTPUT":     "false",
			},
			validate: func(t *testing.T, s *Settings) {
				assert.Equal(t, ModeParallel, s.Batch.Mode)
				assert.Equal(t, 4, s.Batch.MaxParallel)
				assert.False(t, s.Run.LogOutput)
			},
		},
		{
			name:     "explicit overrides win",
			env:      map[string]string{"OVM_OUTPUT__FORMAT": "yaml"},
			override: map[string]interface{}{"output.format": "junit", "config_path": "/tmp/x.json"},
			validate: func(t *testing.T, s *Settings) {
				assert.Equal(t, "junit", s.Output.Format)
				assert.Equal(t, "/tmp/x.json", s.ConfigPath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := testPaths(t)
			if tt.file != "" {
				require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(p.ConfigDir(), tt.file), []byte(tt.content), 0644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			s, err := Load(p, tt.override)
			require.NoError(t, err)
			tt.validate(t, s)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad mode", map[string]string{"OVM_BATCH__MODE": "random"}},
		{"bad format", map[string]string{"OVM_OUTPUT__FORMAT": "xml"}},
		{"negative parallelism", map[string]string{"OVM_BATCH__MAX_PARALLEL": "-1"}},
		{"bad duration", map[string]string{"OVM_GITHUB__TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := testPaths(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(p, nil)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrSettingsLoad))
		})
	}
}

func TestLoadBrokenFile(t *testing.T) {
	p, _ := testPaths(t)
	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.ConfigDir(), "settings.toml"), []byte("[batch\n"), 0644))

	_, err := Load(p, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSettingsLoad))
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, ModeParallel, s.Batch.Mode)
	assert.Equal(t, time.Hour, s.Registry.CacheTTL)
}

func TestEncodeRoundTrip(t *testing.T) {
	s := Default()
	s.Batch.Mode = ModeSeries
	s.Run.Timeout = 90 * time.Second

	data, err := Encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cache_ttl")
	assert.Contains(t, string(data), "1h0m0s")

	p, _ := testPaths(t)
	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.ConfigDir(), "settings.toml"), data, 0644))

	loaded, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeSeries, loaded.Batch.Mode)
	assert.Equal(t, 90*time.Second, loaded.Run.Timeout)
	assert.Equal(t, time.Hour, loaded.Registry.CacheTTL)
}

func TestGenerateContent(t *testing.T) {
	content := GenerateContent()

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Fatalf("uncommented value line: %q", line)
	}
	assert.Contains(t, content, "# mode = \"parallel\"")

	// The generated document is valid TOML that sets nothing
	k := koanf.New(".")
	require.NoError(t, k.Load(&rawBytesProvider{bytes: []byte(content)}, toml.Parser()))
	assert.Empty(t, k.String("batch.mode"))
}

package styles_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ovm/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expected := []string{
		"Header", "Title", "Success", "Error", "Warning", "Muted", "Bold",
		"Vault", "Plugin", "Path", "Cursor", "Selected", "Filter", "Help", "Indent",
	}

	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			_, exists := styles.StyleRegistry[name]
			assert.True(t, exists, "Style %s should exist in registry", name)
		})
	}
}

func TestGetStyle_Unknown(t *testing.T) {
	assert.Equal(t, "plain", styles.GetStyle("DoesNotExist").Render("plain"))
}

func TestLoadStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors:\n  red:\n    light: \"#f00\"\n    dark: \"#f00\"\nstyles:\n  Only:\n    foreground: red\n"), 0644))

	require.NoError(t, styles.LoadStyles(path))
	t.Cleanup(func() {
		data, err := os.ReadFile("styles.yaml")
		require.NoError(t, err)
		require.NoError(t, styles.LoadStylesFromData(data))
	})

	_, ok := styles.StyleRegistry["Only"]
	assert.True(t, ok)
	_, ok = styles.StyleRegistry["Header"]
	assert.False(t, ok)

	assert.Error(t, styles.LoadStylesFromData([]byte("colors: [")))
}

package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helpFS() fstest.MapFS {
	return fstest.MapFS{
		"vaults.md":                  {Data: []byte("# Vaults\n\nHow vaults are discovered")},
		"option-timeout.txt":         {Data: []byte("Timeout help")},
		"config.txxt":                {Data: []byte("Configuration Guide")},
		"ignore.json":                {Data: []byte("{}")},
		"advanced/interpolation.txt": {Data: []byte("Placeholder help")},
	}
}

func TestTopicManager_ScanTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(helpFS())
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name     string
			expected bool
			content  string
		}{
			{"vaults", true, "# Vaults\n\nHow vaults are discovered"},
			{"option-timeout", true, "Timeout help"},
			{"interpolation", true, "Placeholder help"},
			{"config", false, ""},
			{"ignore", false, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, exists := tm.GetTopic(tt.name)
				assert.Equal(t, tt.expected, exists)
				if exists {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(helpFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, tm.scanTopics())
		assert.Equal(t, []string{"config"}, tm.ListTopics())
	})

	t.Run("nil source", func(t *testing.T) {
		tm := New(nil)
		require.NoError(t, tm.scanTopics())
		assert.Empty(t, tm.ListTopics())
	})
}

func TestTopicManager_GetTopic(t *testing.T) {
	tm := New(helpFS())
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		{"vaults", "vaults", true},
		{"option-timeout", "option-timeout", true},
		{"timeout", "option-timeout", true},
		{"--timeout", "option-timeout", true},
		{"-t", "", false},
		{"nonexistent", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestTopicManager_WriteIndex(t *testing.T) {
	tm := New(helpFS())
	require.NoError(t, tm.scanTopics())

	var buf bytes.Buffer
	tm.WriteIndex(&buf, "ovm")

	out := buf.String()
	assert.Contains(t, out, "General topics:\n  interpolation\n  vaults\n")
	assert.Contains(t, out, "Option topics:\n  --timeout\n")
	assert.Contains(t, out, "Use 'ovm help <topic>'")

	buf.Reset()
	New(nil).WriteIndex(&buf, "ovm")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "ovm", Short: "Obsidian vaults manager"}
	root.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show vault statistics",
		Run:   func(cmd *cobra.Command, args []string) {},
	})
	return root
}

func execute(t *testing.T, root *cobra.Command, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestInitialize_HelpCommand(t *testing.T) {
	root := newRoot()
	_, err := Initialize(root, helpFS())
	require.NoError(t, err)

	t.Run("topic", func(t *testing.T) {
		out := execute(t, root, "help", "timeout")
		assert.Equal(t, "Timeout help", out)
	})

	t.Run("topics index", func(t *testing.T) {
		out := execute(t, root, "help", "topics")
		assert.Contains(t, out, "Available help topics:")
	})

	t.Run("command falls back to cobra help", func(t *testing.T) {
		out := execute(t, root, "help", "stats")
		assert.Contains(t, out, "Show vault statistics")
	})
}

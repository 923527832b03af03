package settings

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// document mirrors Settings with durations rendered as strings
type document struct {
	ConfigPath string `toml:"config_path"`
	Batch      struct {
		Mode        string `toml:"mode"`
		MaxParallel int    `toml:"max_parallel"`
	} `toml:"batch"`
	Output struct {
		Format string `toml:"format"`
	} `toml:"output"`
	Registry struct {
		URL      string `toml:"url"`
		Cache    bool   `toml:"cache"`
		CacheTTL string `toml:"cache_ttl"`
	} `toml:"registry"`
	GitHub struct {
		DownloadURL string `toml:"download_url"`
		Timeout     string `toml:"timeout"`
	} `toml:"github"`
	Run struct {
		Shell     string `toml:"shell"`
		Timeout   string `toml:"timeout"`
		LogOutput bool   `toml:"log_output"`
	} `toml:"run"`
}

// Encode renders s as a TOML settings document
func Encode(s *Settings) ([]byte, error) {
	var d document
	d.ConfigPath = s.ConfigPath
	d.Batch.Mode = s.Batch.Mode
	d.Batch.MaxParallel = s.Batch.MaxParallel
	d.Output.Format = s.Output.Format
	d.Registry.URL = s.Registry.URL
	d.Registry.Cache = s.Registry.Cache
	d.Registry.CacheTTL = s.Registry.CacheTTL.String()
	d.GitHub.DownloadURL = s.GitHub.DownloadURL
	d.GitHub.Timeout = s.GitHub.Timeout.String()
	d.Run.Shell = s.Run.Shell
	d.Run.Timeout = s.Run.Timeout.String()
	d.Run.LogOutput = s.Run.LogOutput
	return toml.Marshal(d)
}

// GenerateContent returns the defaults document with every value commented
// out, suitable as a starting settings.toml
func GenerateContent() string {
	return commentOutValues(DefaultContent())
}

// commentOutValues comments out all non-comment, non-blank lines that are not
// section headers
func commentOutValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}

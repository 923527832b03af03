package settings

import (
	"runtime"
	"time"
)

// Batch modes
const (
	ModeParallel = "parallel"
	ModeSeries   = "series"
)

// Output formats
var OutputFormats = []string{"table", "json", "yaml", "junit"}

// Settings is the merged application configuration
type Settings struct {
	ConfigPath string   `koanf:"config_path"`
	Batch      Batch    `koanf:"batch"`
	Output     Output   `koanf:"output"`
	Registry   Registry `koanf:"registry"`
	GitHub     GitHub   `koanf:"github"`
	Run        Run      `koanf:"run"`
}

// Batch controls how vaults are scheduled
type Batch struct {
	Mode        string `koanf:"mode"`
	MaxParallel int    `koanf:"max_parallel"`
}

// Output controls report rendering
type Output struct {
	Format string `koanf:"format"`
}

// Registry configures the community plugins list
type Registry struct {
	URL      string        `koanf:"url"`
	Cache    bool          `koanf:"cache"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// GitHub configures release downloads
type GitHub struct {
	DownloadURL string        `koanf:"download_url"`
	Timeout     time.Duration `koanf:"timeout"`
}

// Run configures the run command
type Run struct {
	Shell     string        `koanf:"shell"`
	Timeout   time.Duration `koanf:"timeout"`
	LogOutput bool          `koanf:"log_output"`
}

// DefaultShell returns the platform shell used when run.shell is empty
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd /C"
	}
	return "sh -c"
}

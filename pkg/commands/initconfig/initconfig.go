// Package initconfig implements "config init"
package initconfig

import (
	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/types"
)

// Options holds options for the config init command
type Options struct {
	FS         types.FS
	ConfigPath string
}

// Result describes what config init did
type Result struct {
	Path     string           `json:"path" yaml:"path"`
	Created  bool             `json:"created" yaml:"created"`
	Document *config.Document `json:"config" yaml:"config"`
}

// Execute creates the default config document when none exists. A valid
// existing document is left alone; an invalid one is reported.
func Execute(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.initconfig").With().Str("path", opts.ConfigPath).Logger()
	result := &Result{Path: opts.ConfigPath}

	doc, err := config.Load(opts.FS, opts.ConfigPath)
	switch {
	case err == nil:
		logger.Info().Msg("Config file already exists")
		result.Document = doc
		return result, nil
	case !errors.IsErrorCode(err, errors.ErrConfigNotFound):
		logger.Error().Err(err).Msg("Failed to load config")
		return result, err
	}

	doc, err = config.CreateDefault(opts.FS, opts.ConfigPath, nil)
	if err != nil {
		return result, err
	}

	logger.Info().Msg("Config file created")
	result.Created = true
	result.Document = doc
	return result, nil
}

package settings

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/arthur-debert/ovm/pkg/paths"
	ovmerrors "github.com/arthur-debert/ovm/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/xhit/go-str2duration/v2"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "OVM_"

//go:embed embedded/defaults.toml
var defaultSettings []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// DefaultContent returns the embedded defaults document
func DefaultContent() string {
	return string(defaultSettings)
}

// Load builds the settings from defaults, the first settings file found in
// p's config directory, and the environment. overrides, when non-nil, is
// merged last (keys in koanf dot notation).
func Load(p paths.Paths, overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, ovmerrors.Wrap(err, ovmerrors.ErrSettingsLoad, "failed to load default settings")
	}

	// 2. User settings file
	if p != nil {
		if path := findSettingsFile(p.SettingsFiles()); path != "" {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, ovmerrors.Wrapf(err, ovmerrors.ErrSettingsLoad, "failed to load settings from %s", path).
					WithDetail("path", path)
			}
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, ovmerrors.Wrap(err, ovmerrors.ErrSettingsLoad, "failed to load environment settings")
	}

	// 4. Explicit overrides (command line)
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, ovmerrors.Wrap(err, ovmerrors.ErrSettingsLoad, "failed to load overrides")
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, ovmerrors.Wrap(err, ovmerrors.ErrSettingsLoad, "failed to unmarshal settings")
	}

	if err := postProcess(&s, p); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the settings built from the embedded defaults only
func Default() *Settings {
	k := koanf.New(".")
	var s Settings
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return &s
	}
	_ = k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook:       stringToDurationHookFunc(),
		},
	})
	_ = postProcess(&s, nil)
	return &s
}

func findSettingsFile(candidates []string) string {
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// stringToDurationHookFunc accepts Go durations as well as day/week units ("7d")
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != durationType {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		if raw == "" || raw == "0" {
			return time.Duration(0), nil
		}
		return str2duration.ParseDuration(raw)
	}
}

func postProcess(s *Settings, p paths.Paths) error {
	s.Batch.Mode = strings.ToLower(strings.TrimSpace(s.Batch.Mode))
	if s.Batch.Mode != ModeParallel && s.Batch.Mode != ModeSeries {
		return ovmerrors.Newf(ovmerrors.ErrSettingsLoad, "invalid batch.mode %q: want %s or %s", s.Batch.Mode, ModeParallel, ModeSeries)
	}
	if s.Batch.MaxParallel < 0 {
		return ovmerrors.Newf(ovmerrors.ErrSettingsLoad, "invalid batch.max_parallel %d", s.Batch.MaxParallel)
	}

	s.Output.Format = strings.ToLower(strings.TrimSpace(s.Output.Format))
	if !slices.Contains(OutputFormats, s.Output.Format) {
		return ovmerrors.Newf(ovmerrors.ErrSettingsLoad, "invalid output.format %q: want one of %s", s.Output.Format, strings.Join(OutputFormats, ", "))
	}

	if s.Run.Shell == "" {
		s.Run.Shell = DefaultShell()
	}

	if s.ConfigPath != "" {
		s.ConfigPath = paths.ExpandHome(s.ConfigPath)
	} else if p != nil {
		s.ConfigPath = p.DefaultConfigPath()
	}

	if s.Registry.URL == "" {
		return ovmerrors.New(ovmerrors.ErrSettingsLoad, "registry.url must not be empty")
	}
	return nil
}

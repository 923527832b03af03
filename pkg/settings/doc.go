// Package settings loads ovm's application settings.
//
// Settings are layered with koanf, later layers overriding earlier ones:
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. The first of settings.toml, settings.yaml, settings.yml found in the
//     ovm config directory
//  3. OVM_ environment variables, "__" separating nested keys
//
// These settings tune how commands run. The plugin list itself lives in the
// config document handled by pkg/config.
package settings

package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"io/fs"
	"sync"

	ovmerrors "github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/filesystem"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://github.com/arthur-debert/ovm/config.schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Document is the plugin config document
type Document struct {
	Plugins []types.Plugin `json:"plugins" yaml:"plugins"`
}

// Default returns an empty document
func Default() *Document {
	return &Document{Plugins: []types.Plugin{}}
}

// Find returns the entry for id
func (d *Document) Find(id string) (types.Plugin, bool) {
	for _, p := range d.Plugins {
		if p.ID == id {
			return p, true
		}
	}
	return types.Plugin{}, false
}

// Clone returns a deep copy of d
func (d *Document) Clone() *Document {
	plugins := make([]types.Plugin, len(d.Plugins))
	copy(plugins, d.Plugins)
	return &Document{Plugins: plugins}
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Parse decodes and validates a config document
func Parse(data []byte) (*Document, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, ovmerrors.Wrap(err, ovmerrors.ErrConfigInvalidFormat, "Invalid JSON format")
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, ovmerrors.Wrap(err, ovmerrors.ErrInternal, "config schema does not compile")
	}
	if err := sch.Validate(instance); err != nil {
		return nil, ovmerrors.Wrap(err, ovmerrors.ErrConfigSchemaInvalid, "Invalid config file")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ovmerrors.Wrap(err, ovmerrors.ErrConfigSchemaInvalid, "Invalid config file")
	}
	if doc.Plugins == nil {
		doc.Plugins = []types.Plugin{}
	}
	return &doc, nil
}

// Load reads the document at path
func Load(fsys types.FS, path string) (*Document, error) {
	logger := logging.GetLogger("config")

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ovmerrors.Wrap(err, ovmerrors.ErrConfigNotFound, "Config file not found").
				WithDetail("path", path)
		}
		return nil, ovmerrors.Wrapf(err, ovmerrors.ErrConfigRead, "cannot read config file %s", path).
			WithDetail("path", path)
	}

	doc, err := Parse(data)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Config validation failed")
		var ovmErr *ovmerrors.OvmError
		if errors.As(err, &ovmErr) {
			ovmErr.WithDetail("path", path)
		}
		return nil, err
	}

	logger.Debug().Str("path", path).Int("plugins", len(doc.Plugins)).Msg("Config loaded")
	return doc, nil
}

// Marshal serializes doc deterministically after reconciling its plugins
func Marshal(doc *Document) ([]byte, error) {
	out := Document{Plugins: Reconcile(doc.Plugins)}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write persists doc at path through a temp file and rename
func Write(fsys types.FS, doc *Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return ovmerrors.Wrap(err, ovmerrors.ErrConfigWrite, "cannot encode config")
	}
	if err := filesystem.WriteFileAtomic(fsys, path, data, 0644); err != nil {
		return ovmerrors.Wrapf(err, ovmerrors.ErrConfigWrite, "cannot write config %s", path).
			WithDetail("path", path)
	}
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("Config written")
	return nil
}

// CreateDefault writes seed (or an empty document) at path. It fails when a
// file already exists there.
func CreateDefault(fsys types.FS, path string, seed *Document) (*Document, error) {
	exists, err := filesystem.Exists(fsys, path)
	if err != nil {
		return nil, ovmerrors.Wrapf(err, ovmerrors.ErrConfigWrite, "cannot access %s", path)
	}
	if exists {
		return nil, ovmerrors.Newf(ovmerrors.ErrConfigExists, "config file already exists at %s", path).
			WithDetail("path", path)
	}

	doc := Default()
	if seed != nil {
		doc = seed.Clone()
	}
	doc.Plugins = Reconcile(doc.Plugins)

	if err := Write(fsys, doc, path); err != nil {
		return nil, err
	}
	logger := logging.GetLogger("config")
	logger.Info().Str("path", path).Msg("Config file created")
	return doc, nil
}

package sequence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/normkeys/internal/input/key"
)

// Loader errors.
var (
	// ErrUnknownFormat indicates a definition file extension that maps
	// to no supported codec.
	ErrUnknownFormat = errors.New("unknown definition file format")

	// ErrUnknownKey indicates a key name no canonical key exists for.
	ErrUnknownKey = errors.New("unknown key name")

	// ErrInvalidDuration indicates an unparseable duration string.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Format identifies a definition file codec.
type Format string

// Supported definition file formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath derives the codec from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// fileConfig is the on-disk shape of a definition file.
type fileConfig struct {
	Sequences []sequenceConfig `yaml:"sequences" toml:"sequences" json:"sequences"`
}

// sequenceConfig is one definition entry. Key names accept canonical
// names, aliases, or single characters; the hold key additionally
// accepts a full "Ctrl+f" spec. Durations are Go duration strings.
type sequenceConfig struct {
	ID         string   `yaml:"id" toml:"id" json:"id"`
	Type       string   `yaml:"type" toml:"type" json:"type"`
	Keys       []string `yaml:"keys" toml:"keys" json:"keys"`
	Key        string   `yaml:"key" toml:"key" json:"key"`
	Modifiers  []string `yaml:"modifiers" toml:"modifiers" json:"modifiers"`
	ExactKeys  bool     `yaml:"exactKeys" toml:"exactKeys" json:"exactKeys"`
	ExactMods  bool     `yaml:"exactModifiers" toml:"exactModifiers" json:"exactModifiers"`
	Timeout    string   `yaml:"timeout" toml:"timeout" json:"timeout"`
	MinHold    string   `yaml:"minHold" toml:"minHold" json:"minHold"`
	Continuous bool     `yaml:"continuous" toml:"continuous" json:"continuous"`
}

// Load decodes a definition set from raw bytes in the given format.
// The returned definitions are converted but not yet registered;
// semantic validation happens in Matcher.Register.
func Load(data []byte, format Format) ([]Definition, error) {
	var cfg fileConfig
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding definitions: %w", err)
	}

	defs := make([]Definition, 0, len(cfg.Sequences))
	for i := range cfg.Sequences {
		d, err := cfg.Sequences[i].toDefinition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// LoadFile reads and decodes a definition file, deriving the codec
// from the file extension.
func LoadFile(path string) ([]Definition, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions: %w", err)
	}
	defs, err := Load(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// toDefinition converts one file entry into a Definition.
func (c *sequenceConfig) toDefinition() (Definition, error) {
	d := Definition{ID: c.ID}

	t, ok := TypeFromName(c.Type)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q in sequence %q", ErrUnknownType, c.Type, c.ID)
	}
	d.Type = t

	for _, name := range c.Keys {
		k := key.FromName(name)
		if k == key.KeyNone {
			return Definition{}, fmt.Errorf("%w: %q in sequence %q", ErrUnknownKey, name, c.ID)
		}
		d.Keys = append(d.Keys, k)
	}

	if c.Key != "" {
		k, mods, err := key.ParseSpec(c.Key)
		if err != nil {
			return Definition{}, fmt.Errorf("sequence %q: %w", c.ID, err)
		}
		d.Key = k
		d.Modifiers = d.Modifiers.With(mods)
	}

	for _, name := range c.Modifiers {
		mod := key.ModifierFromName(name)
		if mod == key.ModNone {
			return Definition{}, fmt.Errorf("%w: modifier %q in sequence %q", ErrUnknownKey, name, c.ID)
		}
		d.Modifiers = d.Modifiers.With(mod)
	}

	if c.ExactKeys {
		d.KeyMode = MatchExact
	}
	if c.ExactMods {
		d.ModifierMode = MatchExact
	}

	var err error
	if d.Timeout, err = parseDuration(c.Timeout, c.ID); err != nil {
		return Definition{}, err
	}
	if d.MinHold, err = parseDuration(c.MinHold, c.ID); err != nil {
		return Definition{}, err
	}
	d.Continuous = c.Continuous

	return d, nil
}

// parseDuration parses an optional Go duration string.
func parseDuration(s, seqID string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q in sequence %q", ErrInvalidDuration, s, seqID)
	}
	return dur, nil
}

package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/paths"
	"github.com/arthur-debert/stencil/pkg/types"
)

// Devtools probe modes
const (
	DevtoolsModeText = "text"
	DevtoolsModeXML  = "xml"
)

// Config is the effective stencil configuration
type Config struct {
	Sync     Sync     `koanf:"sync"`
	Triggers Triggers `koanf:"triggers"`
	Devtools Devtools `koanf:"devtools"`
	Watch    Watch    `koanf:"watch"`
}

// Sync configures template synchronization
type Sync struct {
	// Product names the per-user directory, <user_root>/.<product>
	Product    string `koanf:"product"`
	SourceRoot string `koanf:"source_root"`
	UserRoot   string `koanf:"user_root"`
	// Sets lists the template sets synchronized when none are named
	Sets         []string `koanf:"sets"`
	RemoveLegacy bool     `koanf:"remove_legacy"`
}

type Triggers struct {
	Prefix string `koanf:"prefix"`
}

type Devtools struct {
	Mode string `koanf:"mode"`
}

type Watch struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Validate checks the values that cannot be repaired by defaults.
func (c *Config) Validate() error {
	if err := paths.ValidateProduct(c.Sync.Product); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid sync.product")
	}
	for _, name := range c.Sync.Sets {
		if err := validateSetName(name); err != nil {
			return errors.Wrap(err, errors.ErrConfigValid, "invalid sync.sets")
		}
	}
	switch c.Devtools.Mode {
	case DevtoolsModeText, DevtoolsModeXML:
	default:
		return errors.Newf(errors.ErrConfigValid, "devtools.mode must be %q or %q, got %q",
			DevtoolsModeText, DevtoolsModeXML, c.Devtools.Mode)
	}
	if c.Watch.Debounce < 0 {
		return errors.Newf(errors.ErrConfigValid, "watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// TemplateSets builds the template sets to synchronize. With no names the
// configured sync.sets are used.
func (c *Config) TemplateSets(names ...string) ([]types.TemplateSet, error) {
	if len(names) == 0 {
		names = c.Sync.Sets
	}

	sets := make([]types.TemplateSet, 0, len(names))
	for _, name := range names {
		if err := validateSetName(name); err != nil {
			return nil, err
		}
		sets = append(sets, types.TemplateSet{
			Name:            name,
			SourceRoot:      paths.TemplateSourceDir(c.Sync.SourceRoot, name),
			DestinationRoot: paths.TemplateSetDir(c.Sync.UserRoot, c.Sync.Product, name),
		})
	}
	return sets, nil
}

// LegacyDir returns the obsolete templates directory under the user root.
func (c *Config) LegacyDir() string {
	return paths.LegacyDir(c.Sync.UserRoot)
}

func validateSetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New(errors.ErrInvalidInput, "template set name is empty")
	case strings.ContainsAny(name, `/\`), name == ".", name == "..":
		return errors.Newf(errors.ErrInvalidInput, "template set name %q is not a single path component", name)
	}
	return nil
}

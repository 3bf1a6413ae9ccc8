package config

import (
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

type fileView struct {
	Sync struct {
		Product      string   `toml:"product"`
		SourceRoot   string   `toml:"source_root"`
		UserRoot     string   `toml:"user_root"`
		Sets         []string `toml:"sets"`
		RemoveLegacy bool     `toml:"remove_legacy"`
	} `toml:"sync"`
	Triggers struct {
		Prefix string `toml:"prefix"`
	} `toml:"triggers"`
	Devtools struct {
		Mode string `toml:"mode"`
	} `toml:"devtools"`
	Watch struct {
		Debounce string `toml:"debounce"`
	} `toml:"watch"`
}

// ToTOML renders c in the config file format, so the output can be saved
// and loaded back.
func (c *Config) ToTOML() ([]byte, error) {
	var v fileView
	v.Sync.Product = c.Sync.Product
	v.Sync.SourceRoot = c.Sync.SourceRoot
	v.Sync.UserRoot = c.Sync.UserRoot
	v.Sync.Sets = c.Sync.Sets
	v.Sync.RemoveLegacy = c.Sync.RemoveLegacy
	v.Triggers.Prefix = c.Triggers.Prefix
	v.Devtools.Mode = c.Devtools.Mode
	v.Watch.Debounce = c.Watch.Debounce.String()

	data, err := toml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}

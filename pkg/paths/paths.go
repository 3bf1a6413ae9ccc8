package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/stencil/pkg/errors"
)

// Environment variable names
const (
	// EnvStencilConfigDir overrides the XDG config directory for stencil
	EnvStencilConfigDir = "STENCIL_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Layout constants. These define where synchronized templates land and
// must stay stable: existing destination trees are found through them.
const (
	// StencilDirName is the directory name for stencil-specific files
	StencilDirName = "stencil"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// TemplatesSuffix is appended to a template set name to form both the
	// source directory name and the destination directory name
	TemplatesSuffix = "-templates"

	// LegacyTemplatesDir is the pre-namespacing destination that older
	// releases wrote to directly under the user root
	LegacyTemplatesDir = "templates"
)

// TemplatesDirName returns "<set>-templates".
func TemplatesDirName(setName string) string {
	return setName + TemplatesSuffix
}

// ProductDir returns <userRoot>/.<product>.
func ProductDir(userRoot, product string) string {
	return filepath.Join(userRoot, "."+product)
}

// TemplateSetDir returns the destination root of a template set:
// <userRoot>/.<product>/<set>-templates.
func TemplateSetDir(userRoot, product, setName string) string {
	return filepath.Join(ProductDir(userRoot, product), TemplatesDirName(setName))
}

// TemplateSourceDir returns the source root of a template set:
// <sourceRoot>/<set>-templates.
func TemplateSourceDir(sourceRoot, setName string) string {
	return filepath.Join(sourceRoot, TemplatesDirName(setName))
}

// LegacyDir returns the obsolete <userRoot>/templates directory.
func LegacyDir(userRoot string) string {
	return filepath.Join(userRoot, LegacyTemplatesDir)
}

// ValidateProduct checks that a product identifier can be used as a single
// path component.
func ValidateProduct(product string) error {
	switch {
	case strings.TrimSpace(product) == "":
		return errors.New(errors.ErrInvalidInput, "product identifier is empty")
	case strings.ContainsAny(product, `/\`):
		return errors.Newf(errors.ErrInvalidInput, "product identifier %q contains a path separator", product)
	case product == "." || product == "..":
		return errors.Newf(errors.ErrInvalidInput, "product identifier %q is not a valid name", product)
	}
	return nil
}

// ConfigDir returns stencil's configuration directory, honoring
// STENCIL_CONFIG_DIR before XDG_CONFIG_HOME.
func ConfigDir() string {
	if dir := os.Getenv(EnvStencilConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, StencilDirName)
}

// ConfigFilePath returns the path of the user configuration file.
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// ExpandHome expands a leading ~ to the user's home directory. Paths
// without a leading ~ are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := GetHomeDirectory()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Abs expands ~ and makes path absolute relative to the working directory.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve path %s", path)
	}
	return abs, nil
}

// Describe returns a short "<set> (<src> -> <dest>)" string for logs.
func Describe(setName, src, dest string) string {
	return fmt.Sprintf("%s (%s -> %s)", setName, src, dest)
}

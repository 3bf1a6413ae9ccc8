package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "STENCIL_"

// LoadOptions configures Load
type LoadOptions struct {
	// ConfigFile is an explicit file layered over the user file. It must
	// exist when set.
	ConfigFile string
	// SkipUserConfig ignores paths.ConfigFilePath()
	SkipUserConfig bool
	// Overrides maps dotted keys (sync.product) to values layered over
	// every other source. See ParseOverrides.
	Overrides map[string]any
}

// Load builds the effective configuration from every source.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config if it exists
	if !opts.SkipUserConfig {
		userPath := paths.ConfigFilePath()
		if _, err := os.Stat(userPath); err == nil {
			if err := loadFile(k, userPath); err != nil {
				return nil, err
			}
			logger.Debug().Str("path", userPath).Msg("Loaded user config")
		}
	}

	// 3. Explicit config file
	if opts.ConfigFile != "" {
		path := paths.ExpandHome(opts.ConfigFile)
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path)
		}
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Command line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("product", cfg.Sync.Product).
		Str("sourceRoot", cfg.Sync.SourceRoot).
		Str("userRoot", cfg.Sync.UserRoot).
		Strs("sets", cfg.Sync.Sets).
		Msg("Configuration loaded")
	return &cfg, nil
}

// Default returns the configuration built from the embedded defaults only.
func Default() (*Config, error) {
	return Load(LoadOptions{SkipUserConfig: true})
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

// ParseOverrides turns "key=value" pairs into Overrides. Values stay
// strings; decoding converts them like environment values.
func ParseOverrides(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "override %q is not key=value", pair).
				WithDetail("override", pair)
		}
		out[key] = value
	}
	return out, nil
}

// envKey maps STENCIL_SYNC__SOURCE_ROOT to sync.source_root. Variables
// without a section separator (STENCIL_CONFIG_DIR) are not config keys and
// are skipped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}

// postProcess resolves the filesystem roots.
func postProcess(cfg *Config) error {
	if cfg.Sync.UserRoot == "" {
		home, err := paths.GetHomeDirectory()
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigValid, "sync.user_root is unset and no home directory is available")
		}
		cfg.Sync.UserRoot = home
	}

	var err error
	if cfg.Sync.UserRoot, err = paths.Abs(cfg.Sync.UserRoot); err != nil {
		return err
	}
	if cfg.Sync.SourceRoot, err = paths.Abs(cfg.Sync.SourceRoot); err != nil {
		return err
	}
	return nil
}
